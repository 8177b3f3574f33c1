// Package seed provides the data generators that populate the employee
// directory at startup. Each one is consulted exactly once by employee.NewStore.
package seed

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"ems-sync/internal/employee"
)

// Static returns the given records as the seed.
func Static(records ...employee.Employee) employee.Generator {
	return employee.GeneratorFunc(func() []employee.Employee {
		out := make([]employee.Employee, len(records))
		for i, r := range records {
			out[i] = r.Clone()
		}
		return out
	})
}

var (
	firstNames  = []string{"Ann", "Bo", "Cyrus", "Dewi", "Elena", "Farid", "Grace", "Hiro", "Ines", "Jonas", "Kemal", "Lina", "Maya", "Niko", "Omar", "Priya", "Quinn", "Rosa", "Sami", "Tara"}
	lastNames   = []string{"Abbott", "Brandt", "Chen", "Diaz", "Evans", "Fischer", "Gupta", "Hale", "Ito", "Jensen", "Khan", "Lopez", "Moreau", "Novak", "Okafor", "Park", "Rossi", "Silva", "Tanaka", "Weber"}
	departments = []string{"Engineering", "Sales", "Marketing", "Human Resources", "Finance", "Operations"}
	statuses    = []string{"Active", "Active", "Active", "On Leave", "Inactive"}
	roles       = []string{"Associate", "Specialist", "Senior Specialist", "Team Lead", "Manager"}
)

// Sample generates n deterministic synthetic employees with ids EMP001..EMPn.
// The same seed always yields the same records.
func Sample(n int, seed uint64) employee.Generator {
	return employee.GeneratorFunc(func() []employee.Employee {
		if n <= 0 {
			return []employee.Employee{}
		}
		rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		epoch := time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)

		out := make([]employee.Employee, 0, n)
		for i := 1; i <= n; i++ {
			first := firstNames[rng.IntN(len(firstNames))]
			last := lastNames[rng.IntN(len(lastNames))]
			hired := epoch.AddDate(0, 0, rng.IntN(365*10))

			out = append(out, employee.Employee{
				ID:         employee.FormatID(i),
				Name:       first + " " + last,
				Email:      fmt.Sprintf("%s.%s%d@ems.example.com", strings.ToLower(first), strings.ToLower(last), i),
				Department: departments[rng.IntN(len(departments))],
				Status:     statuses[rng.IntN(len(statuses))],
				Role:       roles[rng.IntN(len(roles))],
				Phone:      fmt.Sprintf("+1-555-%04d", rng.IntN(10000)),
				HireDate:   hired.Format(time.DateOnly),
				Salary:     float64(40000 + rng.IntN(120)*1000),
			})
		}
		return out
	})
}
