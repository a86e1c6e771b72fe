package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	portsrepo "github.com/quickbill/quickbill_backend/internal/core/ports/repositories"
	"github.com/quickbill/quickbill_backend/internal/repositories/database/redisrepo"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool, redisClient *redis.Client) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	currencyRepo := newPgxCurrencyRepository(dbPool)
	resetCodeRepo := redisrepo.NewResetCodeRepository(redisClient)

	return portsrepo.RepositoryProvider{
		UserRepo:      userRepo,
		CurrencyRepo:  currencyRepo,
		ResetCodeRepo: resetCodeRepo,
	}
}
