package normalize

import "strings"

var stateCodes = map[string]string{
	"alabama":        "AL",
	"alaska":         "AK",
	"arizona":        "AZ",
	"arkansas":       "AR",
	"california":     "CA",
	"colorado":       "CO",
	"connecticut":    "CT",
	"delaware":       "DE",
	"florida":        "FL",
	"georgia":        "GA",
	"hawaii":         "HI",
	"idaho":          "ID",
	"illinois":       "IL",
	"indiana":        "IN",
	"iowa":           "IA",
	"kansas":         "KS",
	"kentucky":       "KY",
	"louisiana":      "LA",
	"maine":          "ME",
	"maryland":       "MD",
	"massachusetts":  "MA",
	"michigan":       "MI",
	"minnesota":      "MN",
	"mississippi":    "MS",
	"missouri":       "MO",
	"montana":        "MT",
	"nebraska":       "NE",
	"nevada":         "NV",
	"new hampshire":  "NH",
	"new jersey":     "NJ",
	"new mexico":     "NM",
	"new york":       "NY",
	"north carolina": "NC",
	"north dakota":   "ND",
	"ohio":           "OH",
	"oklahoma":       "OK",
	"oregon":         "OR",
	"pennsylvania":   "PA",
	"rhode island":   "RI",
	"south carolina": "SC",
	"south dakota":   "SD",
	"tennessee":      "TN",
	"texas":          "TX",
	"utah":           "UT",
	"vermont":        "VT",
	"virginia":       "VA",
	"washington":     "WA",
	"west virginia":  "WV",
	"wisconsin":      "WI",
	"wyoming":        "WY",
}

var validStateCodes = buildStateCodeSet()

func buildStateCodeSet() map[string]struct{} {
	set := make(map[string]struct{}, len(stateCodes))
	for _, code := range stateCodes {
		set[code] = struct{}{}
	}
	return set
}

// State maps a full state name to its two-letter code and uppercases an
// already-valid code. Unrecognized input passes through trimmed, not nil:
// international or territory values are kept for the validation layer.
func State(raw string) string {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)
	if code, ok := stateCodes[lower]; ok {
		return code
	}
	upper := strings.ToUpper(trimmed)
	if _, ok := validStateCodes[upper]; ok {
		return upper
	}
	return trimmed
}

const (
	UnitStatusVacant      = "vacant"
	UnitStatusOccupied    = "occupied"
	UnitStatusMaintenance = "maintenance"

	LeaseStatusActive     = "active"
	LeaseStatusPending    = "pending"
	LeaseStatusExpired    = "expired"
	LeaseStatusTerminated = "terminated"

	MaintenanceStatusOpen       = "open"
	MaintenanceStatusInProgress = "in_progress"
	MaintenanceStatusCompleted  = "completed"
	MaintenanceStatusCancelled  = "cancelled"

	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

var unitStatuses = map[string]string{
	"available":    UnitStatusVacant,
	"vacant":       UnitStatusVacant,
	"empty":        UnitStatusVacant,
	"occupied":     UnitStatusOccupied,
	"rented":       UnitStatusOccupied,
	"leased":       UnitStatusOccupied,
	"maintenance":  UnitStatusMaintenance,
	"under repair": UnitStatusMaintenance,
	"repair":       UnitStatusMaintenance,
}

// UnitStatus maps status synonyms onto the canonical unit states.
// Unknown input defaults to vacant rather than failing the row.
func UnitStatus(raw string) string {
	return lookup(unitStatuses, raw, UnitStatusVacant)
}

var leaseStatuses = map[string]string{
	"active":     LeaseStatusActive,
	"current":    LeaseStatusActive,
	"signed":     LeaseStatusActive,
	"pending":    LeaseStatusPending,
	"draft":      LeaseStatusPending,
	"future":     LeaseStatusPending,
	"expired":    LeaseStatusExpired,
	"ended":      LeaseStatusExpired,
	"past":       LeaseStatusExpired,
	"terminated": LeaseStatusTerminated,
	"evicted":    LeaseStatusTerminated,
	"broken":     LeaseStatusTerminated,
}

func LeaseStatus(raw string) string {
	return lookup(leaseStatuses, raw, LeaseStatusActive)
}

var maintenanceStatuses = map[string]string{
	"open":        MaintenanceStatusOpen,
	"new":         MaintenanceStatusOpen,
	"submitted":   MaintenanceStatusOpen,
	"in progress": MaintenanceStatusInProgress,
	"in_progress": MaintenanceStatusInProgress,
	"assigned":    MaintenanceStatusInProgress,
	"working":     MaintenanceStatusInProgress,
	"completed":   MaintenanceStatusCompleted,
	"done":        MaintenanceStatusCompleted,
	"closed":      MaintenanceStatusCompleted,
	"resolved":    MaintenanceStatusCompleted,
	"cancelled":   MaintenanceStatusCancelled,
	"canceled":    MaintenanceStatusCancelled,
}

func MaintenanceStatus(raw string) string {
	return lookup(maintenanceStatuses, raw, MaintenanceStatusOpen)
}

var priorities = map[string]string{
	"urgent":    PriorityUrgent,
	"emergency": PriorityUrgent,
	"critical":  PriorityUrgent,
	"high":      PriorityHigh,
	"medium":    PriorityMedium,
	"normal":    PriorityMedium,
	"low":       PriorityLow,
}

// Priority defaults unknown and empty input to medium.
func Priority(raw string) string {
	return lookup(priorities, raw, PriorityMedium)
}

var unitTypes = map[string]string{
	"apartment":     "apartment",
	"apt":           "apartment",
	"studio":        "studio",
	"condo":         "condo",
	"condominium":   "condo",
	"townhouse":     "townhouse",
	"townhome":      "townhouse",
	"duplex":        "duplex",
	"house":         "house",
	"single family": "house",
	"room":          "room",
}

func UnitType(raw string) string {
	return lookup(unitTypes, raw, "apartment")
}

var propertyTypes = map[string]string{
	"residential":   "residential",
	"commercial":    "commercial",
	"mixed":         "mixed_use",
	"mixed use":     "mixed_use",
	"mixed_use":     "mixed_use",
	"industrial":    "industrial",
	"multi family":  "residential",
	"multifamily":   "residential",
	"single family": "residential",
}

func PropertyType(raw string) string {
	return lookup(propertyTypes, raw, "residential")
}

func lookup(table map[string]string, raw, fallback string) string {
	if value, ok := table[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return value
	}
	return fallback
}
