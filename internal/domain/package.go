package domain

import "time"

// Status describes where a package is in its delivery lifecycle.
//
// Pending, InTransit, Delivered, Cancelled and Undeliverable are persisted
// statuses. Parsed and StatusError exist only on the client side, before a
// record reaches the store; persisting either writes Pending.
type Status string

const (
	StatusPending       Status = "pending"
	StatusInTransit     Status = "in_transit"
	StatusDelivered     Status = "delivered"
	StatusCancelled     Status = "cancelled"
	StatusUndeliverable Status = "undeliverable"
	StatusParsed        Status = "parsed"
	StatusError         Status = "error"
)

// Terminal reports whether a status can never transition again.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusUndeliverable
}

// The store keeps the original Portuguese status vocabulary so existing
// rows stay readable. The domain layer speaks English only.
var statusToStored = map[Status]string{
	StatusPending:       "pendente",
	StatusInTransit:     "em_rota",
	StatusDelivered:     "entregue",
	StatusCancelled:     "cancelada",
	StatusUndeliverable: "nao_entregue",
}

var storedToStatus = map[string]Status{
	"pendente":     StatusPending,
	"em_rota":      StatusInTransit,
	"entregue":     StatusDelivered,
	"cancelada":    StatusCancelled,
	"nao_entregue": StatusUndeliverable,
}

// StoredStatus returns the persisted representation of a status.
// Client-only statuses map to "pendente".
func StoredStatus(s Status) string {
	if v, ok := statusToStored[s]; ok {
		return v
	}
	return "pendente"
}

// StatusFromStored maps a persisted status back into the domain vocabulary.
// Unknown values default to Pending rather than failing the whole read.
func StatusFromStored(v string) Status {
	if s, ok := storedToStatus[v]; ok {
		return s
	}
	return StatusPending
}

// InputKind records how a package's address was originally captured.
type InputKind string

const (
	InputText   InputKind = "text"
	InputPhoto  InputKind = "photo"
	InputVoice  InputKind = "voice"
	InputPDF    InputKind = "pdf"
	InputSheet  InputKind = "sheet"
	InputCamera InputKind = "camera"
)

// Represents a single parcel to deliver.
//
// A Package is created in Pending status once an address has been extracted
// and persisted. It joins a route by receiving a RouteID and SequenceNumber
// together with the InTransit status, and leaves the lifecycle through one
// of the terminal statuses. SequenceNumber and RouteID are nil whenever the
// package is not part of an active route.
type Package struct {
	ID             string
	OwnerID        string
	FullAddress    string
	Street         string
	Number         string
	Neighborhood   string
	Complement     string
	PostalCode     string
	City           string
	Region         string
	RecipientName  string
	Phone          string
	Status         Status
	SequenceNumber *int
	RouteID        *string
	SourceKind     InputKind
	SourceRawInput string
	DeliveryNotes  string
	CreatedAt      time.Time
}

// OnActiveRoute reports whether the package currently belongs to a route.
// Invariant: a package is InTransit if and only if this holds.
func (p *Package) OnActiveRoute() bool {
	return p.RouteID != nil && p.SequenceNumber != nil
}

// Draft of a package before the store assigns an id.
type PackageDraft struct {
	OwnerID        string
	FullAddress    string
	Street         string
	Number         string
	Neighborhood   string
	Complement     string
	PostalCode     string
	City           string
	Region         string
	RecipientName  string
	Phone          string
	SourceKind     InputKind
	SourceRawInput string
}
