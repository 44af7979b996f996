package repository

import (
	"dunefest/internal/database"
)

type Repositories struct {
	Events        *EventRepository
	Packages      *PackageRepository
	Tables        *TableRepository
	Addons        *AddonRepository
	Workshops     *WorkshopRepository
	Registrations *RegistrationRepository
	Layouts       *LayoutRepository
	Admins        *AdminRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Events:        NewEventRepository(db),
		Packages:      NewPackageRepository(db),
		Tables:        NewTableRepository(db),
		Addons:        NewAddonRepository(db),
		Workshops:     NewWorkshopRepository(db),
		Registrations: NewRegistrationRepository(db),
		Layouts:       NewLayoutRepository(db),
		Admins:        NewAdminRepository(db),
	}
}
