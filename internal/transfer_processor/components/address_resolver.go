package components

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/gcoin-wallet-engine/internal/domain/account"
	"github.com/gcoin-wallet-engine/internal/transfer_processor/service"
)

const (
	// similarityThreshold is the minimum fuzzy-match score at which the best
	// candidate is treated as the resolved recipient.
	similarityThreshold = 0.3

	// maxSuggestions bounds the "did you mean" candidate list
	maxSuggestions = 3
)

// AddressResolverImpl implements the AddressResolver interface
type AddressResolverImpl struct {
	accountRepo account.Repository
	logger      *slog.Logger
}

// NewAddressResolver creates a new AddressResolverImpl
func NewAddressResolver(accountRepo account.Repository, logger *slog.Logger) service.AddressResolver {
	return &AddressResolverImpl{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// Resolve maps a recipient token to an account. Usernames get exact lookup
// only; wallet addresses fall back to similarity matching over all known
// addresses when no exact match exists.
func (r *AddressResolverImpl) Resolve(ctx context.Context, token string, isUsername bool, excludeWallet string) (*service.Resolution, error) {
	if isUsername {
		acc, err := r.accountRepo.GetByUsername(ctx, token)
		if err != nil {
			return nil, err
		}
		if acc == nil {
			// No fuzzy fallback for usernames
			return &service.Resolution{}, nil
		}
		return &service.Resolution{Account: acc, Wallet: acc.WalletAddress}, nil
	}

	acc, err := r.accountRepo.GetByWalletAddress(ctx, token)
	if err != nil {
		return nil, err
	}
	if acc != nil {
		return &service.Resolution{Account: acc, Wallet: acc.WalletAddress}, nil
	}

	candidates, err := r.accountRepo.ListWalletAddresses(ctx, excludeWallet)
	if err != nil {
		return nil, err
	}

	suggestions := rankCandidates(token, candidates)
	resolution := &service.Resolution{Suggestions: suggestions}

	if len(suggestions) > 0 && suggestions[0].Score > similarityThreshold {
		matched, err := r.accountRepo.GetByWalletAddress(ctx, suggestions[0].WalletAddress)
		if err != nil {
			return nil, err
		}
		if matched != nil {
			r.logger.Info("Fuzzy-matched recipient wallet",
				"input", token,
				"matched", matched.WalletAddress,
				"score", suggestions[0].Score,
			)
			resolution.Account = matched
			resolution.Wallet = matched.WalletAddress
		}
	}

	return resolution, nil
}

// rankCandidates scores every candidate against the input and returns the top
// candidates sorted by descending score.
func rankCandidates(input string, candidates []string) []service.Suggestion {
	scored := make([]service.Suggestion, 0, len(candidates))
	for _, candidate := range candidates {
		scored = append(scored, service.Suggestion{
			WalletAddress: candidate,
			Score:         similarityScore(input, candidate),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > maxSuggestions {
		scored = scored[:maxSuggestions]
	}
	return scored
}

// similarityScore compares two wallet addresses. Exact matches score 1.0.
// Otherwise both must carry the wallet prefix; the score is the per-character
// match ratio over the shared suffix length minus a penalty for the length
// difference relative to the longer suffix. Scores never go below 0.
func similarityScore(input, candidate string) float64 {
	if input == candidate {
		return 1.0
	}
	if !strings.HasPrefix(input, account.WalletAddressPrefix) ||
		!strings.HasPrefix(candidate, account.WalletAddressPrefix) {
		return 0
	}

	a := input[len(account.WalletAddressPrefix):]
	b := candidate[len(account.WalletAddressPrefix):]

	shorter, longer := len(a), len(b)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	if longer == 0 {
		return 0
	}

	matches := 0
	for i := 0; i < shorter; i++ {
		if a[i] == b[i] {
			matches++
		}
	}

	ratio := 0.0
	if shorter > 0 {
		ratio = float64(matches) / float64(shorter)
	}
	penalty := float64(longer-shorter) / float64(longer)

	score := ratio - penalty
	if score < 0 {
		return 0
	}
	return score
}
