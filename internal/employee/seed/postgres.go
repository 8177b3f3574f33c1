package seed

import (
	"context"
	"time"

	"ems-sync/internal/employee"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const postgresSeedTimeout = 30 * time.Second

// seedRow is one row of the read-only employee_seeds table.
type seedRow struct {
	ID         string     `gorm:"column:id;primaryKey"`
	Name       string     `gorm:"column:name"`
	Email      string     `gorm:"column:email"`
	Department string     `gorm:"column:department"`
	Status     string     `gorm:"column:status"`
	Role       string     `gorm:"column:role"`
	Phone      string     `gorm:"column:phone"`
	HireDate   *time.Time `gorm:"column:hire_date"`
	Salary     float64    `gorm:"column:salary"`
}

func (seedRow) TableName() string {
	return "employee_seeds"
}

func (r seedRow) toEmployee() employee.Employee {
	e := employee.Employee{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		Department: r.Department,
		Status:     r.Status,
		Role:       r.Role,
		Phone:      r.Phone,
		Salary:     r.Salary,
	}
	if r.HireDate != nil {
		e.HireDate = r.HireDate.Format(time.DateOnly)
	}
	return e
}

type postgresGenerator struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Postgres seeds the directory from the employee_seeds table. A failed query
// is logged and yields an empty directory rather than aborting startup.
func Postgres(db *gorm.DB, logger ...*zap.Logger) employee.Generator {
	l := zap.L().Named("employee.seed.postgres")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.seed.postgres")
	}
	return &postgresGenerator{db: db, logger: l}
}

func (g *postgresGenerator) GenerateInitialEmployees() []employee.Employee {
	ctx, cancel := context.WithTimeout(context.Background(), postgresSeedTimeout)
	defer cancel()

	var rows []seedRow
	if err := g.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		g.logger.Error("load employee seed failed", zap.Error(err))
		return []employee.Employee{}
	}

	out := make([]employee.Employee, len(rows))
	for i, r := range rows {
		out[i] = r.toEmployee()
	}
	g.logger.Info("employee seed loaded", zap.Int("count", len(out)))
	return out
}
