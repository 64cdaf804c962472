package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skyfare/backend/internal/domain"
)

type WalletRepository interface {
	// GetOrCreate returns the account for userID, creating it with the seed
	// credit if absent. Creation is idempotent per userID.
	GetOrCreate(ctx context.Context, userID string, seed *domain.Transaction) (*domain.WalletAccount, error)
	// Apply commits a balance change and its transaction record together.
	// Returns domain.ErrInsufficientFunds when a debit would go negative;
	// nothing is written in that case.
	Apply(ctx context.Context, tx *domain.Transaction) (*domain.WalletAccount, error)
	ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
}

type PGWalletRepository struct {
	db *pgxpool.Pool
}

func NewWalletRepository(db *pgxpool.Pool) WalletRepository {
	return &PGWalletRepository{db: db}
}

func (r *PGWalletRepository) GetOrCreate(ctx context.Context, userID string, seed *domain.Transaction) (*domain.WalletAccount, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	res, err := tx.Exec(ctx, `INSERT INTO wallet_accounts (user_id, balance)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING`, userID, seed.Amount)
	if err != nil {
		return nil, err
	}

	// Seed the ledger only when this call actually created the account, so
	// repeated calls never double-grant.
	if res.RowsAffected() == 1 {
		if _, err := tx.Exec(ctx, `INSERT INTO wallet_transactions (id, user_id, amount, kind, description)
			VALUES ($1, $2, $3, $4, $5)`,
			seed.ID, userID, seed.Amount, seed.Kind, seed.Description); err != nil {
			return nil, err
		}
	}

	var account domain.WalletAccount
	if err := tx.QueryRow(ctx, `SELECT user_id, balance, created_at, updated_at FROM wallet_accounts WHERE user_id=$1`, userID).
		Scan(&account.UserID, &account.Balance, &account.CreatedAt, &account.UpdatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *PGWalletRepository) Apply(ctx context.Context, wtx *domain.Transaction) (*domain.WalletAccount, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Row lock serializes concurrent applies for the same account.
	var balance int64
	if err := tx.QueryRow(ctx, `SELECT balance FROM wallet_accounts WHERE user_id=$1 FOR UPDATE`, wtx.UserID).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}

	newBalance := balance + wtx.Amount
	if wtx.Kind == domain.TransactionKindDebit {
		newBalance = balance - wtx.Amount
	}
	if newBalance < 0 {
		return nil, domain.ErrInsufficientFunds
	}

	var account domain.WalletAccount
	if err := tx.QueryRow(ctx, `UPDATE wallet_accounts SET balance=$1, updated_at=now() WHERE user_id=$2
		RETURNING user_id, balance, created_at, updated_at`, newBalance, wtx.UserID).
		Scan(&account.UserID, &account.Balance, &account.CreatedAt, &account.UpdatedAt); err != nil {
		return nil, err
	}

	if err := tx.QueryRow(ctx, `INSERT INTO wallet_transactions (id, user_id, amount, kind, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		wtx.ID, wtx.UserID, wtx.Amount, wtx.Kind, wtx.Description).Scan(&wtx.CreatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *PGWalletRepository) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, amount, kind, description, created_at FROM wallet_transactions WHERE user_id=$1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0)
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Kind, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

var _ WalletRepository = (*PGWalletRepository)(nil)
