package identity

import (
	"context"
	"strings"
	"sync"

	"github.com/deedchain/registry/registry"
)

// UserFetcher resolves a single wallet to its registered profile; a wallet
// with no profile resolves to nil
type UserFetcher interface {
	FetchUser(ctx context.Context, wallet string) (*registry.User, error)
}

// Resolver batch-resolves wallet addresses to registered profiles for display.
// Duplicate addresses, in any casing, cost a single registry query.
type Resolver struct {
	fetcher UserFetcher
}

func NewResolver(fetcher UserFetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// Directory maps canonicalized wallet addresses to their profiles. Lookups
// tolerate any address casing; wallets with no profile are present with a
// nil value.
type Directory map[string]*registry.User

// User returns the profile resolved for the given wallet, nil when the wallet
// is unregistered or was not part of the resolved set
func (d Directory) User(wallet string) *registry.User {
	return d[strings.ToLower(wallet)]
}

// DisplayName returns the resolved username for the given wallet, falling
// back to the raw address when no profile exists
func (d Directory) DisplayName(wallet string) string {
	if user := d.User(wallet); user != nil && user.Username != "" {
		return user.Username
	}
	return wallet
}

// Resolve fetches the profile for every unique wallet in the given list. Each
// unique address is queried exactly once; queries run concurrently and the
// call returns only after all have completed.
func (r *Resolver) Resolve(ctx context.Context, wallets []string) (Directory, error) {
	unique := make([]string, 0, len(wallets))
	seen := make(map[string]struct{}, len(wallets))
	for _, wallet := range wallets {
		key := strings.ToLower(wallet)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, wallet)
	}

	directory := make(Directory, len(unique))

	var wg sync.WaitGroup
	var mutex sync.Mutex
	var failure error

	for _, wallet := range unique {
		wallet := wallet
		wg.Add(1)
		go func() {
			defer wg.Done()

			user, err := r.fetcher.FetchUser(ctx, wallet)

			mutex.Lock()
			defer mutex.Unlock()
			if err != nil && failure == nil {
				failure = err
			}
			directory[strings.ToLower(wallet)] = user
		}()
	}

	wg.Wait()

	if failure != nil {
		return nil, failure
	}
	return directory, nil
}
