package registry

import "github.com/normanwashere/patient-portal-prototype-sub001/tenant"

const (
	// DefaultTenantID is the tenant every unknown id resolves to.
	DefaultTenantID = "metroGeneral"
	// DefaultQueryParam carries the startup tenant id in the portal URL.
	DefaultQueryParam = "tenant"
)

// BuiltinTenants returns fresh copies of the tenants shipped with the portal.
// Built-in ids can be replaced at runtime but never removed.
func BuiltinTenants() []tenant.Config {
	return []tenant.Config{
		{
			ID:                 "metroGeneral",
			Name:               "Metro General Hospital",
			Tagline:            "Care that comes to you",
			LogoURL:            "/assets/tenants/metro-general/logo.svg",
			LoginBackgroundURL: "/assets/tenants/metro-general/login.jpg",
			Colors: tenant.Colors{
				Primary:    "#0f62fe",
				Secondary:  "#08bdba",
				Background: "#f4f7fb",
				Surface:    "#ffffff",
				Text:       "#161616",
				TextMuted:  "#6f6f6f",
				Border:     "#d0d7e2",
			},
			Features: tenant.Features{
				SSO:           true,
				LOA:           true,
				Queue:         true,
				Appointments:  true,
				MultiLocation: tenant.Bool(true),
				Admissions:    tenant.Bool(true),
				CDSS:          tenant.Bool(true),
				AIAssistant:   tenant.Bool(true),
				Visits: tenant.VisitFeatures{
					TeleconsultEnabled:          true,
					TeleconsultNowEnabled:       true,
					TeleconsultLaterEnabled:     true,
					ClinicVisitEnabled:          true,
					ClinicF2FSchedulingEnabled:  true,
					ClinicLabFulfillmentEnabled: true,
				},
			},
		},
		{
			ID:                 "healthFirst",
			Name:               "HealthFirst Clinics",
			Tagline:            "Your neighborhood clinic",
			LogoURL:            "/assets/tenants/health-first/logo.svg",
			LoginBackgroundURL: "/assets/tenants/health-first/login.jpg",
			Colors: tenant.Colors{
				Primary:    "#198038",
				Secondary:  "#a7f0ba",
				Background: "#f6fbf7",
				Surface:    "#ffffff",
				Text:       "#0e2a16",
				TextMuted:  "#5a6b5f",
				Border:     "#cfe3d4",
			},
			Features: tenant.Features{
				LOA:          true,
				Queue:        true,
				Appointments: true,
				Admissions:   tenant.Bool(false),
				Visits: tenant.VisitFeatures{
					TeleconsultEnabled:         false,
					TeleconsultNowEnabled:      true,
					ClinicVisitEnabled:         true,
					ClinicF2FSchedulingEnabled: true,
				},
			},
		},
		{
			ID:                 "primeCare",
			Name:               "PrimeCare Medical Group",
			Tagline:            "Specialists in every branch",
			LogoURL:            "/assets/tenants/prime-care/logo.svg",
			LoginBackgroundURL: "/assets/tenants/prime-care/login.jpg",
			Colors: tenant.Colors{
				Primary:    "#8a3ffc",
				Secondary:  "#ff7eb6",
				Background: "#faf7ff",
				Surface:    "#ffffff",
				Text:       "#1c0f30",
				TextMuted:  "#6e6480",
				Border:     "#e0d6f5",
			},
			Features: tenant.Features{
				SSO:           true,
				Appointments:  true,
				MultiLocation: tenant.Bool(true),
				AIAssistant:   tenant.Bool(true),
				Visits: tenant.VisitFeatures{
					TeleconsultEnabled:          true,
					TeleconsultLaterEnabled:     true,
					ClinicVisitEnabled:          true,
					ClinicLabFulfillmentEnabled: true,
				},
			},
		},
	}
}
