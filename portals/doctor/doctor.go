// Package doctor defines the doctor portal: its closed module set, role
// table, navigation and resolver wiring.
package doctor

import (
	"github.com/normanwashere/patient-portal-prototype-sub001/access"
	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
	"github.com/normanwashere/patient-portal-prototype-sub001/nav"
	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

const (
	Name   = "doctor"
	Prefix = "/doctor"
	Home   = "/doctor"
)

// ModuleKey identifies a doctor portal module.
type ModuleKey string

const (
	Dashboard     ModuleKey = "dashboard"
	Notifications ModuleKey = "notifications"
	Profile       ModuleKey = "profile"
	Settings      ModuleKey = "settings"
	Appointments  ModuleKey = "appointments"
	Schedule      ModuleKey = "schedule"
	Patients      ModuleKey = "patients"
	Encounter     ModuleKey = "encounter"
	Teleconsult   ModuleKey = "teleconsult"
	Queue         ModuleKey = "queue"
	Prescriptions ModuleKey = "prescriptions"
	Orders        ModuleKey = "orders"
	Results       ModuleKey = "results"
	Admissions    ModuleKey = "admissions"
	CDSS          ModuleKey = "cdss"
	Assistant     ModuleKey = "assistant"
	Messages      ModuleKey = "messages"
)

var modules = []ModuleKey{
	Dashboard, Notifications, Profile, Settings, Appointments, Schedule, Patients,
	Encounter, Teleconsult, Queue, Prescriptions, Orders, Results, Admissions,
	CDSS, Assistant, Messages,
}

var alwaysAllowed = []ModuleKey{Dashboard, Notifications, Profile, Settings}

var table = access.MustTable(Name, modules, map[gate.Role][]ModuleKey{
	gate.RoleSuperAdmin: modules,
	gate.RoleAdmin:      {Dashboard, Appointments, Schedule, Patients, Queue, Messages},
	gate.RoleDoctor: {
		Dashboard, Appointments, Schedule, Patients, Encounter, Teleconsult, Queue,
		Prescriptions, Orders, Results, Admissions, CDSS, Assistant, Messages,
	},
	gate.RoleNurse:        {Dashboard, Appointments, Patients, Queue, Results, Admissions, Messages},
	gate.RoleLabTech:      {Dashboard, Orders, Results},
	gate.RolePharmacist:   {Dashboard, Prescriptions},
	gate.RoleBillingStaff: {Dashboard},
	gate.RoleFrontDesk:    {Dashboard, Appointments, Schedule, Queue, Messages},
	gate.RoleHR:           {},
	gate.RoleImagingTech:  {Dashboard, Orders, Results},
})

// Modules returns the closed module set.
func Modules() []ModuleKey {
	return append([]ModuleKey(nil), modules...)
}

// AlwaysAllowed returns the modules every role may reach.
func AlwaysAllowed() []ModuleKey {
	return append([]ModuleKey(nil), alwaysAllowed...)
}

// Table returns the doctor role table.
func Table() *access.Table[ModuleKey] {
	return table
}

// IsModuleAllowed reports whether role lists key in the doctor table.
func IsModuleAllowed(role gate.Role, key ModuleKey) bool {
	return table.Allowed(role, key)
}

// RouteToModuleKey maps a doctor path to its module key.
func RouteToModuleKey(path string) ModuleKey {
	return Portal().ModuleKey(path)
}

// Sections returns the doctor navigation.
func Sections() []nav.Section[ModuleKey] {
	return []nav.Section[ModuleKey]{
		{
			Title: "Today",
			Items: []nav.Item[ModuleKey]{
				{Key: Dashboard, Label: "Dashboard", Path: Prefix, Icon: "home"},
				{Key: Queue, Label: "Queue", Path: Prefix + "/queue", Icon: "users", Predicate: tenant.Requires(tenant.CapabilityQueue), BadgeKey: "queue.waiting"},
				{Key: Appointments, Label: "Appointments", Path: Prefix + "/appointments", Icon: "calendar", Predicate: tenant.Requires(tenant.CapabilityAppointments), BadgeKey: "appointments.today"},
				{
					Key:       Schedule,
					Label:     "Schedule",
					Path:      Prefix + "/schedule",
					Icon:      "clock",
					Predicate: tenant.AnyOf(tenant.Requires(tenant.CapabilityClinicF2FScheduling), tenant.Requires(tenant.CapabilityAppointments)),
				},
				{Key: Teleconsult, Label: "Teleconsult", Path: Prefix + "/teleconsult", Icon: "video", Predicate: tenant.Requires(tenant.CapabilityTeleconsult)},
			},
		},
		{
			Title: "Clinical",
			Items: []nav.Item[ModuleKey]{
				{Key: Patients, Label: "Patients", Path: Prefix + "/patients", Icon: "user"},
				{Key: Encounter, Label: "Encounter", Path: Prefix + "/encounter", Icon: "stethoscope"},
				{Key: Prescriptions, Label: "Prescriptions", Path: Prefix + "/prescriptions", Icon: "pill"},
				{Key: Orders, Label: "Orders", Path: Prefix + "/orders", Icon: "clipboard"},
				{Key: Results, Label: "Results", Path: Prefix + "/results", Icon: "flask", BadgeKey: "results.unread"},
				{Key: Admissions, Label: "Admissions", Path: Prefix + "/admissions", Icon: "bed", Predicate: tenant.Requires(tenant.CapabilityAdmissions)},
			},
		},
		{
			Title: "Decision Support",
			Items: []nav.Item[ModuleKey]{
				{Key: CDSS, Label: "Clinical Decision Support", Path: Prefix + "/cdss", Icon: "lightbulb", Predicate: tenant.Requires(tenant.CapabilityCDSS)},
				{Key: Assistant, Label: "AI Assistant", Path: Prefix + "/assistant", Icon: "sparkles", Predicate: tenant.Requires(tenant.CapabilityAIAssistant)},
			},
		},
		{
			Title: "Inbox",
			Items: []nav.Item[ModuleKey]{
				{Key: Messages, Label: "Messages", Path: Prefix + "/messages", Icon: "mail", BadgeKey: "messages.unread"},
				{Key: Notifications, Label: "Notifications", Path: Prefix + "/notifications", Icon: "bell", BadgeKey: "notifications.unread"},
			},
		},
		{
			Title: "Account",
			Items: []nav.Item[ModuleKey]{
				{Key: Profile, Label: "Profile", Path: Prefix + "/profile", Icon: "user-circle"},
				{Key: Settings, Label: "Settings", Path: Prefix + "/settings", Icon: "settings"},
			},
		},
	}
}

// Portal returns a fresh doctor portal definition.
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

// Resolver is the doctor portal resolver.
type Resolver = access.Resolver[ModuleKey]

// NewResolver binds the doctor portal to a feature source.
func NewResolver(source access.FeatureSource, opts ...access.Option) (*Resolver, error) {
	return access.NewResolver(Portal(), source, opts...)
}
