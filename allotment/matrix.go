package allotment

import (
	"sort"

	"github.com/pkg/errors"
)

// Assigned maps a committee to the portfolios already taken in it.
type Assigned map[string][]string

func (a Assigned) Add(committee, portfolio string) {
	if a.Has(committee, portfolio) {
		return
	}
	a[committee] = append(a[committee], portfolio)
}

func (a Assigned) Has(committee, portfolio string) bool {
	for _, p := range a[committee] {
		if p == portfolio {
			return true
		}
	}
	return false
}

// PortfolioOptions returns the portfolios of committee exactly as listed in the matrix.
func PortfolioOptions(matrix map[string][]string, committee string) []string {
	options := make([]string, len(matrix[committee]))
	copy(options, matrix[committee])
	return options
}

// CommitteeOptions lists the committees of the matrix, following the order of
// committees first and then any remaining matrix keys alphabetically.
func CommitteeOptions(committees []string, matrix map[string][]string) []string {
	options := []string{}
	seen := map[string]struct{}{}
	for _, c := range committees {
		if _, ok := matrix[c]; !ok {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		options = append(options, c)
	}
	rest := []string{}
	for c := range matrix {
		if _, ok := seen[c]; !ok {
			rest = append(rest, c)
		}
	}
	sort.Strings(rest)
	return append(options, rest...)
}

// ValidateMatrix checks that committee and portfolio names are set and that no
// portfolio repeats within its committee.
func ValidateMatrix(matrix map[string][]string) error {
	for committee, portfolios := range matrix {
		if committee == "" {
			return errors.New("committee matrix contains an unnamed committee")
		}
		seen := make(map[string]struct{}, len(portfolios))
		for _, p := range portfolios {
			if p == "" {
				return errors.Errorf("committee %q contains an unnamed portfolio", committee)
			}
			if _, dup := seen[p]; dup {
				return errors.Errorf("portfolio %q is listed twice in committee %q", p, committee)
			}
			seen[p] = struct{}{}
		}
	}
	return nil
}

// InvalidProposals returns the complete proposals whose portfolio does not
// belong to the chosen committee.
func InvalidProposals(matrix map[string][]string, batch *Batch) []string {
	invalid := []string{}
	for _, p := range batch.Proposals() {
		if !p.IsComplete() {
			continue
		}
		if !contains(matrix[p.Committee], p.Portfolio) {
			invalid = append(invalid, p.ParticipantId)
		}
	}
	return invalid
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
