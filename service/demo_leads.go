package service

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"lead-scorer/domain"
)

var (
	demoNames = []string{
		"Sarah Johnson", "Mike Chen", "Lisa Brown", "David Wilson", "Amy Davis",
		"John Smith", "Maria Garcia", "Robert Taylor", "Jennifer Lee", "Michael Zhang",
		"Laura Thompson", "James Anderson", "Emily Rodriguez", "William Martinez",
		"Ashley Johnson", "Christopher Lee", "Jessica White", "Daniel Brown", "Nicole Clark", "Ryan Miller",
	}
	demoLoanTypes = []string{"conventional", "fha", "va", "jumbo", "refinance"}
	demoStages    = []string{"New Lead", "Qualified", "Application", "Processing"}
)

// DemoLeadGenerator produces realistic-looking pipeline leads for dashboards.
type DemoLeadGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewDemoLeadGenerator seeds the generator; seed 0 picks a time-based seed.
func NewDemoLeadGenerator(seed uint64) *DemoLeadGenerator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &DemoLeadGenerator{
		rng: rand.New(rand.NewPCG(seed, seed>>1)),
		now: time.Now,
	}
}

// Generate returns n demo leads.
func (g *DemoLeadGenerator) Generate(n int) []domain.Lead {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now().UTC()
	leads := make([]domain.Lead, 0, n)
	for i := 0; i < n; i++ {
		name := demoNames[i%len(demoNames)]
		leads = append(leads, domain.Lead{
			ID:          uuid.NewString(),
			Name:        name,
			Email:       strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@email.com",
			Phone:       fmt.Sprintf("(%d) %d-%d", g.between(200, 999), g.between(200, 999), g.between(1000, 9999)),
			Stage:       demoStages[g.rng.IntN(len(demoStages))],
			CreatedDate: now.AddDate(0, 0, -g.between(1, 30)),
			LastContact: now.AddDate(0, 0, -g.between(0, 7)),
			RawLead: domain.RawLead{
				CreditScore:      g.between(580, 820),
				Income:           float64(g.between(45000, 200000)),
				LoanAmount:       float64(g.between(200000, 800000)),
				DebtToIncome:     math.Round((0.15+0.30*g.rng.Float64())*100) / 100,
				LoanType:         demoLoanTypes[g.rng.IntN(len(demoLoanTypes))],
				DaysSinceContact: domain.IntPtr(g.between(1, 15)),
				ContactFrequency: domain.IntPtr(g.between(1, 8)),
			},
		})
	}
	return leads
}

// between draws an integer in [lo, hi].
func (g *DemoLeadGenerator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}
