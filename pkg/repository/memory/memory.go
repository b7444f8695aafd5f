package memory

import (
	"github.com/doc-forge-buddy/docforge/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	user         *userRepository
	contract     *contractRepository
	inspection   *inspectionRepository
	notification *notificationRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		user:         newUserRepository(),
		contract:     newContractRepository(),
		inspection:   newInspectionRepository(),
		notification: newNotificationRepository(),
	}
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) Contract() interfaces.ContractRepository {
	return m.contract
}

func (m *Memory) Inspection() interfaces.InspectionRepository {
	return m.inspection
}

func (m *Memory) Notification() interfaces.NotificationRepository {
	return m.notification
}

func (m *Memory) Close() error {
	return nil
}
