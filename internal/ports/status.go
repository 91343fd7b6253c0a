package ports

import "github.com/eleven-am/failover/internal/domain"

type StatusProvider interface {
	Status() domain.Status
}
