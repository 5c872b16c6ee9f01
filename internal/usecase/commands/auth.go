package commands

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"quotedesk/internal/domain/user"
	reqdto "quotedesk/internal/handler/dto/request"
	"quotedesk/internal/infra"
	"quotedesk/internal/infra/mail"
	"quotedesk/internal/pkg/clock"
	"quotedesk/internal/pkg/errs"
	"quotedesk/internal/pkg/jwt"
	"quotedesk/internal/pkg/password"
	"quotedesk/internal/usecase/queries"
	"quotedesk/internal/usecase/shared"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type LoginResult struct {
	TokenPair
	User *queries.UserView
}

type AuthCommands interface {
	Register(ctx context.Context, req reqdto.RegisterRequest) (*queries.UserView, error)
	Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	userReads  queries.UserReadStore
	jwtService *jwt.Service
	clock      clock.Clock
}

func NewAuthCommands(uow shared.UnitOfWork, userReads queries.UserReadStore, jwtService *jwt.Service, clk clock.Clock) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		userReads:  userReads,
		jwtService: jwtService,
		clock:      clk,
	}
}

func (a *authCommandsImpl) Register(ctx context.Context, req reqdto.RegisterRequest) (*queries.UserView, error) {
	credentials, name, err := req.ToDomain()
	if err != nil {
		return nil, err
	}

	hash, err := password.Hash(credentials.Password().Value())
	if err != nil {
		return nil, errs.Wrap(err, "failed to hash password")
	}

	newUser, err := user.NewUser(credentials.Email(), hash, name)
	if err != nil {
		return nil, err
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Users().Create(ctx, tx.DB(), newUser); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, errs.ErrEmailTaken)
			}
			return err
		}

		payload, err := json.Marshal(map[string]any{"name": newUser.Name()})
		if err != nil {
			return errs.Wrap(err, "failed to encode welcome payload")
		}
		return tx.MailJobs().Enqueue(ctx, tx.DB(), mail.KindWelcome, newUser.Email().Value(), payload)
	})
	if err != nil {
		return nil, err
	}

	return a.userReads.FindByID(ctx, newUser.ID())
}

func (a *authCommandsImpl) Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error) {
	credentials, err := req.ToDomain()
	if err != nil {
		// Malformed credentials are indistinguishable from wrong ones.
		return nil, errs.Mark(err, errs.ErrInvalidCredentials)
	}

	snap, err := a.uow.CommandReads().UserByEmail(ctx, credentials.Email().Value())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrInvalidCredentials)
		}
		return nil, err
	}

	if err := password.Compare(snap.PasswordHash, credentials.Password().Value()); err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidCredentials)
	}

	pair, err := a.issueTokens(snap.ID, snap.Email)
	if err != nil {
		return nil, err
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().StoreRefreshToken(ctx, tx.DB(), snap.ID, pair.RefreshToken, a.clock.Now())
	})
	if err != nil {
		return nil, err
	}

	view, err := a.userReads.FindByID(ctx, snap.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{TokenPair: *pair, User: view}, nil
}

// Refresh rotates the session: the presented token must equal the single
// stored one, and a successful refresh replaces it, so a superseded token can
// never be replayed.
func (a *authCommandsImpl) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.jwtService.ValidateTokenOfType(refreshToken, jwt.TokenTypeRefresh)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrTokenValidation)
	}

	snap, err := a.uow.CommandReads().UserByID(ctx, claims.UserID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrTokenValidation)
		}
		return nil, err
	}

	if snap.RefreshToken == nil || *snap.RefreshToken != refreshToken {
		return nil, errs.Mark(errs.New("refresh token superseded"), errs.ErrTokenValidation)
	}

	pair, err := a.issueTokens(snap.ID, snap.Email)
	if err != nil {
		return nil, err
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().StoreRefreshToken(ctx, tx.DB(), snap.ID, pair.RefreshToken, a.clock.Now())
	})
	if err != nil {
		return nil, err
	}

	return pair, nil
}

func (a *authCommandsImpl) Logout(ctx context.Context, refreshToken string) error {
	claims, err := a.jwtService.ValidateTokenOfType(refreshToken, jwt.TokenTypeRefresh)
	if err != nil {
		return errs.Mark(err, errs.ErrTokenValidation)
	}

	return a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().ClearRefreshToken(ctx, tx.DB(), claims.UserID)
	})
}

// ForgotPassword always reports success to the caller: whether the address
// exists must not be observable from the outside.
func (a *authCommandsImpl) ForgotPassword(ctx context.Context, email string) error {
	snap, err := a.uow.CommandReads().UserByEmail(ctx, email)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			slog.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	resetToken, err := a.jwtService.GenerateResetToken(snap.ID)
	if err != nil {
		return errs.Mark(err, errs.ErrTokenGeneration)
	}

	return a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Users().StoreResetToken(ctx, tx.DB(), snap.ID, resetToken); err != nil {
			return err
		}

		payload, err := json.Marshal(map[string]any{"token": resetToken})
		if err != nil {
			return errs.Wrap(err, "failed to encode reset payload")
		}
		return tx.MailJobs().Enqueue(ctx, tx.DB(), mail.KindPasswordReset, snap.Email, payload)
	})
}

func (a *authCommandsImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := a.jwtService.ValidateTokenOfType(token, jwt.TokenTypeReset)
	if err != nil {
		return errs.Mark(err, errs.ErrTokenValidation)
	}

	if _, err := user.NewPassword(newPassword); err != nil {
		return err
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return errs.Wrap(err, "failed to hash password")
	}

	return a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		redeemed, err := tx.Users().RedeemResetToken(ctx, tx.DB(), claims.UserID, hash, token)
		if err != nil {
			return err
		}
		if !redeemed {
			// Token already consumed or superseded by a newer reset request.
			return errs.Mark(errs.New("reset token not redeemable"), errs.ErrTokenValidation)
		}
		return nil
	})
}

func (a *authCommandsImpl) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	snap, err := a.uow.CommandReads().UserByID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrUserNotFound)
		}
		return err
	}

	if err := password.Compare(snap.PasswordHash, currentPassword); err != nil {
		return errs.Mark(err, errs.ErrInvalidCredentials)
	}

	if _, err := user.NewPassword(newPassword); err != nil {
		return err
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return errs.Wrap(err, "failed to hash password")
	}

	return a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().UpdatePassword(ctx, tx.DB(), userID, hash)
	})
}

func (a *authCommandsImpl) issueTokens(userID uuid.UUID, email string) (*TokenPair, error) {
	accessToken, err := a.jwtService.GenerateAccessToken(userID, email)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrTokenGeneration)
	}
	refreshToken, err := a.jwtService.GenerateRefreshToken(userID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrTokenGeneration)
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
