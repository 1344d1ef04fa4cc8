// Package services contains server-side business logic. This file implements
// AccountService: login, operator-side account creation, and token checks for
// authenticated endpoints.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/keeper/internal/api"
	"github.com/dmitrijs2005/keeper/internal/apperr"
	"github.com/dmitrijs2005/keeper/internal/common"
	"github.com/dmitrijs2005/keeper/internal/cryptox"
	"github.com/dmitrijs2005/keeper/internal/server/auth"
	"github.com/dmitrijs2005/keeper/internal/server/models"
	"github.com/dmitrijs2005/keeper/internal/server/repositories/repomanager"
)

// AccountService returns apperr.Error values only; it never logs them.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *cryptox.Hasher
	tokens      *auth.Issuer
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, hasher *cryptox.Hasher, tokens *auth.Issuer) *AccountService {
	return &AccountService{db: db, repomanager: m, hasher: hasher, tokens: tokens}
}

// Login checks a handle and password.
//
// An unknown handle and a wrong password both yield LoginFailed. An unknown
// handle is verified against a dummy hash made with the same parameters so
// both paths do the same argon2 work.
func (s *AccountService) Login(ctx context.Context, uname, pword string) (api.LoginResult, error) {
	repo := s.repomanager.Accounts(s.db)

	acc, err := repo.GetByHandle(ctx, uname)
	var encoded string
	switch {
	case err == nil:
		encoded = acc.PasswordHash
	case errors.Is(err, common.ErrNotFound):
		acc = nil
		if encoded, err = s.hasher.Dummy(); err != nil {
			return nil, apperr.FromError(err)
		}
	default:
		return nil, apperr.FromStorage(err)
	}

	verr := s.hasher.Verify(pword, encoded)
	var decErr *cryptox.DecodeError
	if errors.As(verr, &decErr) {
		return nil, apperr.FromDecode(verr)
	}
	// CredentialsInvalid is folded into Failed and never surfaces as an error.
	if apperr.FromVerification(verr) != nil || acc == nil {
		return api.LoginFailed{}, nil
	}

	return api.LoginSuccess{Account: publicAccount(acc)}, nil
}

// Create registers an account. It is reached from the operator CLI only.
func (s *AccountService) Create(ctx context.Context, handle string, name *string, password string) (*models.Account, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" || password == "" {
		return nil, apperr.ErrRequestMalformed
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperr.FromError(err)
	}

	repo := s.repomanager.Accounts(s.db)
	acc, err := repo.Create(ctx, &models.Account{Handle: handle, Name: name, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrHandleTaken) {
			return nil, apperr.ErrHandleAlreadyExists
		}
		return nil, apperr.FromStorage(err)
	}
	return acc, nil
}

// Get returns the public view of the account with id. A token naming an
// account that no longer exists is Unauthenticated.
func (s *AccountService) Get(ctx context.Context, id string) (api.Account, error) {
	acc, err := s.repomanager.Accounts(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return api.Account{}, apperr.ErrUnauthenticated
		}
		return api.Account{}, apperr.FromStorage(err)
	}
	return publicAccount(acc), nil
}

// IssueToken mints an access token for the account with handle.
func (s *AccountService) IssueToken(ctx context.Context, handle string) (string, error) {
	acc, err := s.repomanager.Accounts(s.db).GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", apperr.ErrUnauthenticated
		}
		return "", apperr.FromStorage(err)
	}

	token, err := s.tokens.Issue(acc.ID)
	if err != nil {
		return "", apperr.FromJWT(err)
	}
	return token, nil
}

// Authenticate validates an access token and returns the account id it names.
func (s *AccountService) Authenticate(token string) (string, error) {
	if token == "" {
		return "", apperr.ErrUnauthenticated
	}
	id, err := s.tokens.Parse(token)
	if err != nil {
		return "", apperr.FromJWT(err)
	}
	return id, nil
}

func publicAccount(acc *models.Account) api.Account {
	return api.Account{ID: acc.ID, Name: acc.Name}
}
