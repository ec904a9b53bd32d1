package posting_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abacus/internal/core/apperror"
	"abacus/internal/domain/accounts"
	"abacus/internal/domain/domaintest"
	"abacus/internal/domain/posting"
)

func seedAccount(t *testing.T, repo *domaintest.FakeAccounts, code, name string, accType accounts.Type) *accounts.Account {
	t.Helper()
	acc := accounts.New(code, name, accType)
	require.NoError(t, repo.Create(context.Background(), acc))
	return acc
}

func TestResolver_Resolve(t *testing.T) {
	repo := domaintest.NewFakeAccounts()
	cash := seedAccount(t, repo, "1000", "Cash", accounts.TypeAsset)
	ar := seedAccount(t, repo, "1100", "Accounts Receivable", accounts.TypeAsset)

	resolver := posting.NewResolver(repo)

	set, err := resolver.Resolve(context.Background(), posting.Cash, posting.AccountsReceivable)
	require.NoError(t, err)

	assert.Equal(t, cash.ID, set[posting.Cash])
	assert.Equal(t, ar.ID, set[posting.AccountsReceivable])
	assert.True(t, set.Has(posting.Cash))
	assert.False(t, set.Has(posting.SalesRevenue))
}

func TestResolver_MissingAccountIsConfigurationError(t *testing.T) {
	repo := domaintest.NewFakeAccounts()
	seedAccount(t, repo, "1000", "Cash", accounts.TypeAsset)

	resolver := posting.NewResolver(repo)

	// 4000 Sales Revenue was never created for this tenant.
	_, err := resolver.Resolve(context.Background(), posting.Cash, posting.SalesRevenue)
	require.Error(t, err)
	assert.True(t, apperror.IsConfiguration(err), "got %v", err)
}

func TestResolver_InactiveAccountIsConfigurationError(t *testing.T) {
	repo := domaintest.NewFakeAccounts()
	cash := seedAccount(t, repo, "1000", "Cash", accounts.TypeAsset)
	cash.Active = false

	resolver := posting.NewResolver(repo)

	_, err := resolver.Resolve(context.Background(), posting.Cash)
	require.Error(t, err)
	assert.True(t, apperror.IsConfiguration(err), "got %v", err)
}

func TestMustGet_MissingRole(t *testing.T) {
	set := posting.AccountSet{}

	_, err := posting.MustGet(set, posting.VATPayable)
	require.Error(t, err)
	assert.True(t, apperror.IsConfiguration(err))
}

func TestWellKnown_Codes(t *testing.T) {
	assert.Equal(t, "1000", posting.Cash.Code())
	assert.Equal(t, "1100", posting.AccountsReceivable.Code())
	assert.Equal(t, "2000", posting.AccountsPayable.Code())
	assert.Equal(t, "2100", posting.VATPayable.Code())
	assert.Equal(t, "4000", posting.SalesRevenue.Code())
}
