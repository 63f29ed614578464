// Package provider defines the provider portal: its closed module set, role
// table, navigation and resolver wiring.
package provider

import (
	"github.com/normanwashere/patient-portal-prototype-sub001/access"
	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
	"github.com/normanwashere/patient-portal-prototype-sub001/nav"
	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

const (
	Name   = "provider"
	Prefix = "/provider"
	Home   = "/provider"
)

// ModuleKey identifies a provider portal module.
type ModuleKey string

const (
	Dashboard    ModuleKey = "dashboard"
	Profile      ModuleKey = "profile"
	Queue        ModuleKey = "queue"
	Appointments ModuleKey = "appointments"
	Patients     ModuleKey = "patients"
	Admissions   ModuleKey = "admissions"
	Nursing      ModuleKey = "nursing"
	Laboratory   ModuleKey = "laboratory"
	Imaging      ModuleKey = "imaging"
	Pharmacy     ModuleKey = "pharmacy"
	Billing      ModuleKey = "billing"
	HR           ModuleKey = "hr"
	Reports      ModuleKey = "reports"
	Users        ModuleKey = "users"
	Settings     ModuleKey = "settings"
	Branches     ModuleKey = "branches"
)

var modules = []ModuleKey{
	Dashboard, Profile, Queue, Appointments, Patients, Admissions, Nursing,
	Laboratory, Imaging, Pharmacy, Billing, HR, Reports, Users, Settings, Branches,
}

var alwaysAllowed = []ModuleKey{Dashboard, Profile}

var table = access.MustTable(Name, modules, map[gate.Role][]ModuleKey{
	gate.RoleSuperAdmin: modules,
	gate.RoleAdmin: {
		Dashboard, Queue, Appointments, Patients, Admissions, Laboratory, Imaging,
		Pharmacy, Billing, HR, Reports, Users, Settings, Branches,
	},
	gate.RoleDoctor:       {Dashboard, Queue, Appointments, Patients, Admissions, Laboratory, Imaging, Pharmacy},
	gate.RoleNurse:        {Dashboard, Queue, Appointments, Patients, Admissions, Nursing, Laboratory},
	gate.RoleLabTech:      {Dashboard, Queue, Laboratory},
	gate.RolePharmacist:   {Dashboard, Queue, Pharmacy},
	gate.RoleBillingStaff: {Dashboard, Billing, Reports},
	gate.RoleFrontDesk:    {Dashboard, Queue, Appointments, Patients, Admissions},
	gate.RoleHR:           {Dashboard, HR, Users},
	gate.RoleImagingTech:  {Dashboard, Queue, Imaging},
})

// Modules returns the closed module set.
func Modules() []ModuleKey {
	return append([]ModuleKey(nil), modules...)
}

// AlwaysAllowed returns the modules every role may reach.
func AlwaysAllowed() []ModuleKey {
	return append([]ModuleKey(nil), alwaysAllowed...)
}

// Table returns the provider role table.
func Table() *access.Table[ModuleKey] {
	return table
}

// IsModuleAllowed reports whether role lists key in the provider table.
func IsModuleAllowed(role gate.Role, key ModuleKey) bool {
	return table.Allowed(role, key)
}

// RouteToModuleKey maps a provider path to its module key.
func RouteToModuleKey(path string) ModuleKey {
	return Portal().ModuleKey(path)
}

// Sections returns the provider navigation.
func Sections() []nav.Section[ModuleKey] {
	return []nav.Section[ModuleKey]{
		{
			Title: "Overview",
			Items: []nav.Item[ModuleKey]{
				{Key: Dashboard, Label: "Dashboard", Path: Prefix, Icon: "home"},
				{Key: Queue, Label: "Patient Queue", Path: Prefix + "/queue", Icon: "users", Predicate: tenant.Requires(tenant.CapabilityQueue), BadgeKey: "queue.waiting"},
				{Key: Appointments, Label: "Appointments", Path: Prefix + "/appointments", Icon: "calendar", Predicate: tenant.Requires(tenant.CapabilityAppointments), BadgeKey: "appointments.today"},
			},
		},
		{
			Title: "Patient Care",
			Items: []nav.Item[ModuleKey]{
				{Key: Patients, Label: "Patients", Path: Prefix + "/patients", Icon: "user"},
				{Key: Admissions, Label: "Admissions", Path: Prefix + "/admissions", Icon: "bed", Predicate: tenant.Requires(tenant.CapabilityAdmissions)},
				{Key: Nursing, Label: "Nursing", Path: Prefix + "/nursing", Icon: "heart"},
			},
		},
		{
			Title: "Services",
			Items: []nav.Item[ModuleKey]{
				{Key: Laboratory, Label: "Laboratory", Path: Prefix + "/laboratory", Icon: "flask", BadgeKey: "lab.pending"},
				{Key: Imaging, Label: "Imaging", Path: Prefix + "/imaging", Icon: "scan"},
				{Key: Pharmacy, Label: "Pharmacy", Path: Prefix + "/pharmacy", Icon: "pill", BadgeKey: "pharmacy.pending"},
			},
		},
		{
			Title: "Administration",
			Items: []nav.Item[ModuleKey]{
				{Key: Billing, Label: "Billing", Path: Prefix + "/billing", Icon: "receipt"},
				{Key: Reports, Label: "Reports", Path: Prefix + "/reports", Icon: "chart"},
				{Key: HR, Label: "Human Resources", Path: Prefix + "/hr", Icon: "briefcase"},
				{Key: Users, Label: "Users", Path: Prefix + "/users", Icon: "shield"},
				{Key: Branches, Label: "Branches", Path: Prefix + "/branches", Icon: "map", Predicate: tenant.Requires(tenant.CapabilityMultiLocation)},
				{Key: Settings, Label: "Settings", Path: Prefix + "/settings", Icon: "settings"},
			},
		},
		{
			Title: "Account",
			Items: []nav.Item[ModuleKey]{
				{Key: Profile, Label: "Profile", Path: Prefix + "/profile", Icon: "user-circle"},
			},
		},
	}
}

// Portal returns a fresh provider portal definition.
func Portal() *access.Portal[ModuleKey] {
	return &access.Portal[ModuleKey]{
		Name:          Name,
		Prefix:        Prefix,
		Home:          Home,
		Default:       Dashboard,
		AlwaysAllowed: AlwaysAllowed(),
		Table:         table,
		Predicates:    nav.Predicates(Sections()),
	}
}

// Resolver is the provider portal resolver.
type Resolver = access.Resolver[ModuleKey]

// NewResolver binds the provider portal to a feature source.
func NewResolver(source access.FeatureSource, opts ...access.Option) (*Resolver, error) {
	return access.NewResolver(Portal(), source, opts...)
}
