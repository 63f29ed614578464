package catalog

import "github.com/normanwashere/patient-portal-prototype-sub001/tenant"

func def(group, label, description string, parent tenant.Capability) CapabilityDefinition {
	return CapabilityDefinition{
		Group:       group,
		Label:       Message{Text: label},
		Description: Message{Text: description},
		Parent:      parent,
	}
}

// Default returns the catalog of every tenant capability.
func Default() *StaticCatalog {
	return NewStatic(map[string]CapabilityDefinition{
		string(tenant.CapabilitySSO):                  def("access", "Single sign-on", "Staff sign in through the organization identity provider.", ""),
		string(tenant.CapabilityLOA):                  def("access", "Letters of authorization", "Patients can request letters of authorization.", ""),
		string(tenant.CapabilityQueue):                def("operations", "Patient queue", "Walk-in and check-in queue management.", ""),
		string(tenant.CapabilityAppointments):         def("operations", "Appointments", "Appointment booking and calendars.", ""),
		string(tenant.CapabilityMultiLocation):        def("operations", "Multiple locations", "Branch selection for multi-site tenants.", ""),
		string(tenant.CapabilityAdmissions):           def("clinical", "Admissions", "Inpatient admission workflows.", ""),
		string(tenant.CapabilityCDSS):                 def("clinical", "Clinical decision support", "Guideline and interaction checks during encounters.", ""),
		string(tenant.CapabilityAIAssistant):          def("clinical", "AI assistant", "Drafting and summarization assistant for clinicians.", ""),
		string(tenant.CapabilityTeleconsult):          def("visits", "Teleconsult", "Video consultations.", ""),
		string(tenant.CapabilityTeleconsultNow):       def("visits", "Teleconsult now", "On-demand video consultations.", tenant.CapabilityTeleconsult),
		string(tenant.CapabilityTeleconsultLater):     def("visits", "Teleconsult later", "Scheduled video consultations.", tenant.CapabilityTeleconsult),
		string(tenant.CapabilityClinicVisit):          def("visits", "Clinic visits", "In-person clinic visits.", ""),
		string(tenant.CapabilityClinicF2FScheduling):  def("visits", "Face-to-face scheduling", "Patients schedule in-person visits online.", ""),
		string(tenant.CapabilityClinicLabFulfillment): def("visits", "Lab fulfillment", "Lab orders fulfilled at the clinic.", ""),
	})
}
