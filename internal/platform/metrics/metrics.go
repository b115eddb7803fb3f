package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the directory-level Prometheus metrics. Construct once per
// process; promauto registers on the default registry.
type Metrics struct {
	UsersCreated prometheus.Counter
	UsersDeleted prometheus.Counter
	RolesCreated prometheus.Counter
	RolesDeleted prometheus.Counter
}

// New creates and registers all directory metrics.
func New() *Metrics {
	return &Metrics{
		UsersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_users_created_total",
			Help: "Total number of users created.",
		}),
		UsersDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_users_deleted_total",
			Help: "Total number of users deleted.",
		}),
		RolesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_roles_created_total",
			Help: "Total number of roles created.",
		}),
		RolesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_roles_deleted_total",
			Help: "Total number of roles deleted.",
		}),
	}
}

func (m *Metrics) IncrementUsersCreated() {
	if m != nil {
		m.UsersCreated.Inc()
	}
}

func (m *Metrics) IncrementUsersDeleted() {
	if m != nil {
		m.UsersDeleted.Inc()
	}
}

func (m *Metrics) IncrementRolesCreated() {
	if m != nil {
		m.RolesCreated.Inc()
	}
}

func (m *Metrics) IncrementRolesDeleted() {
	if m != nil {
		m.RolesDeleted.Inc()
	}
}
