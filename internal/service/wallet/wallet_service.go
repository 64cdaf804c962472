package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/skyfare/backend/internal/domain"
	"github.com/skyfare/backend/internal/monitoring"
	"github.com/skyfare/backend/internal/repository"
)

type WalletUseCase interface {
	GetWallet(ctx context.Context, userID string) (*domain.WalletAccount, []domain.Transaction, error)
	Apply(ctx context.Context, userID string, amount int64, kind domain.TransactionKind, description string) (*domain.WalletAccount, error)
}

// WalletService is the sole mutator of wallet state. Balance and the
// transaction log are committed together by the repository, so they can
// never diverge.
type WalletService struct {
	repo         repository.WalletRepository
	initialGrant int64
	log          *logrus.Logger
	metrics      *monitoring.Metrics
}

type WalletServiceOption func(*WalletService)

func WithMetrics(m *monitoring.Metrics) WalletServiceOption {
	return func(s *WalletService) {
		s.metrics = m
	}
}

func NewWalletService(repo repository.WalletRepository, initialGrant int64, log *logrus.Logger, opts ...WalletServiceOption) *WalletService {
	service := &WalletService{
		repo:         repo,
		initialGrant: initialGrant,
		log:          log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// GetWallet returns the account for userID, creating it with the initial
// grant on first access. Transactions come back newest-first.
func (s *WalletService) GetWallet(ctx context.Context, userID string) (*domain.WalletAccount, []domain.Transaction, error) {
	if userID == "" {
		return nil, nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}

	seed := &domain.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      s.initialGrant,
		Kind:        domain.TransactionKindCredit,
		Description: domain.InitialGrantDescription,
	}

	account, err := s.repo.GetOrCreate(ctx, userID, seed)
	if err != nil {
		return nil, nil, domain.NewPersistenceError("wallet: get or create account", err)
	}

	transactions, err := s.repo.ListTransactions(ctx, userID)
	if err != nil {
		return nil, nil, domain.NewPersistenceError("wallet: list transactions", err)
	}

	return account, transactions, nil
}

// Apply commits a credit or debit against the account. The repository holds
// the critical section; no local state is touched before the store
// acknowledges the write, so a timeout or cancellation commits nothing.
func (s *WalletService) Apply(ctx context.Context, userID string, amount int64, kind domain.TransactionKind, description string) (*domain.WalletAccount, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}
	if kind != domain.TransactionKindCredit && kind != domain.TransactionKindDebit {
		return nil, fmt.Errorf("%w: unknown transaction kind %q", domain.ErrInvalidInput, kind)
	}

	transaction := &domain.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      amount,
		Kind:        kind,
		Description: description,
	}

	account, err := s.repo.Apply(ctx, transaction)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			if s.metrics != nil {
				s.metrics.InsufficientFunds.Inc()
			}
			return nil, domain.ErrInsufficientFunds
		}
		if errors.Is(err, domain.ErrWalletNotFound) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, domain.NewPersistenceError("wallet: apply transaction", err)
	}

	if kind == domain.TransactionKindDebit && s.metrics != nil {
		s.metrics.WalletDebits.Inc()
	}

	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"kind":    kind,
		"amount":  amount,
		"balance": account.Balance,
	}).Info("wallet transaction applied")

	return account, nil
}

var _ WalletUseCase = (*WalletService)(nil)
