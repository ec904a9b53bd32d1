package posting

import (
	"context"
	"fmt"

	"abacus/internal/core/apperror"
	"abacus/internal/core/id"
	"abacus/internal/domain/accounts"
)

// Resolver resolves well-known posting accounts by their chart codes.
// A missing or inactive account surfaces as a configuration error at
// posting time rather than a silently skipped ledger leg.
type Resolver struct {
	repo accounts.Repository
}

// NewResolver creates a resolver over the accounts repository.
func NewResolver(repo accounts.Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve looks up the requested roles and returns the account set.
// All roles must resolve; the first missing one fails the call.
func (r *Resolver) Resolve(ctx context.Context, roles ...WellKnown) (AccountSet, error) {
	set := make(AccountSet, len(roles))
	for _, role := range roles {
		accID, err := r.resolveOne(ctx, role)
		if err != nil {
			return nil, err
		}
		set[role] = accID
	}
	return set, nil
}

func (r *Resolver) resolveOne(ctx context.Context, role WellKnown) (id.ID, error) {
	acc, err := r.repo.GetByCode(ctx, role.Code())
	if err != nil {
		if apperror.IsNotFound(err) {
			return id.Nil(), apperror.NewConfiguration(
				fmt.Sprintf("Posting account %q (code %s) is not configured", role, role.Code()),
			).WithDetail("role", role.String()).
				WithDetail("code", role.Code())
		}
		return id.Nil(), fmt.Errorf("resolve %s: %w", role, err)
	}

	if !acc.Active || acc.DeletionMark {
		return id.Nil(), apperror.NewConfiguration(
			fmt.Sprintf("Posting account %q (code %s) is inactive", role, role.Code()),
		).WithDetail("role", role.String()).
			WithDetail("code", role.Code())
	}

	return acc.ID, nil
}

// MustGet returns the account id for a role or a configuration error.
// Used by services that received a pre-resolved AccountSet.
func MustGet(set AccountSet, role WellKnown) (id.ID, error) {
	accID, ok := set[role]
	if !ok || id.IsNil(accID) {
		return id.Nil(), apperror.NewConfiguration(
			fmt.Sprintf("Posting account %q is not configured", role),
		).WithDetail("role", role.String()).
			WithDetail("code", role.Code())
	}
	return accID, nil
}
