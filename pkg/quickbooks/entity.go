package quickbooks

import "strings"

// Entity is a QuickBooks record as a dynamic JSON object. QuickBooks
// entities are open-ended (custom fields, minor-version additions), so the
// client does not force them into fixed structs.
type Entity map[string]interface{}

// EntityType describes one logical entity the v3 API exposes.
type EntityType struct {
	// Name is the logical camelCase name, e.g. "invoice", "billPayment".
	Name string
	// Singleton entities are read without an id segment (e.g. preferences).
	Singleton bool
}

// URLSegment is the lowercased resource path segment for the entity.
func (e EntityType) URLSegment() string {
	return strings.ToLower(e.Name)
}

// EnvelopeKey is the JSON envelope key QuickBooks wraps the entity in.
func (e EntityType) EnvelopeKey() string {
	return Capitalize(e.Name)
}

// Registry of the entity types supported by the v3 API. Per-entity
// convenience methods delegate through this table; the generic operations
// accept any name so new entity types work without a registry change.
var entityTypes = map[string]EntityType{
	"account":         {Name: "account"},
	"attachable":      {Name: "attachable"},
	"bill":            {Name: "bill"},
	"billPayment":     {Name: "billPayment"},
	"budget":          {Name: "budget"},
	"class":           {Name: "class"},
	"companyInfo":     {Name: "companyInfo", Singleton: true},
	"creditMemo":      {Name: "creditMemo"},
	"customer":        {Name: "customer"},
	"department":      {Name: "department"},
	"deposit":         {Name: "deposit"},
	"employee":        {Name: "employee"},
	"estimate":        {Name: "estimate"},
	"exchangerate":    {Name: "exchangerate", Singleton: true},
	"invoice":         {Name: "invoice"},
	"item":            {Name: "item"},
	"journalCode":     {Name: "journalCode"},
	"journalEntry":    {Name: "journalEntry"},
	"payment":         {Name: "payment"},
	"paymentMethod":   {Name: "paymentMethod"},
	"preferences":     {Name: "preferences", Singleton: true},
	"purchase":        {Name: "purchase"},
	"purchaseOrder":   {Name: "purchaseOrder"},
	"refundReceipt":   {Name: "refundReceipt"},
	"reportMetadata":  {Name: "reportMetadata"},
	"salesReceipt":    {Name: "salesReceipt"},
	"taxAgency":       {Name: "taxAgency"},
	"taxCode":         {Name: "taxCode"},
	"taxRate":         {Name: "taxRate"},
	"taxService":      {Name: "taxService"},
	"term":            {Name: "term"},
	"timeActivity":    {Name: "timeActivity"},
	"transfer":        {Name: "transfer"},
	"vendor":          {Name: "vendor"},
	"vendorCredit":    {Name: "vendorCredit"},
}

// LookupEntityType resolves a logical entity name from the registry. Unknown
// names still work with the generic operations; ok reports whether the name
// is a known v3 entity.
func LookupEntityType(name string) (EntityType, bool) {
	e, ok := entityTypes[name]
	if !ok {
		return EntityType{Name: name}, false
	}
	return e, true
}

// Capitalize upper-cases the first character only; the camelCase tail is
// preserved verbatim. This exact rule matches the envelope key casing the
// v3 API uses ("invoice" -> "Invoice", "billPayment" -> "BillPayment").
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// cloneEntity makes a shallow copy so pseudo-field stripping and sparse
// injection never mutate the caller's map.
func cloneEntity(entity Entity) Entity {
	if entity == nil {
		return nil
	}
	clone := make(Entity, len(entity))
	for k, v := range entity {
		clone[k] = v
	}
	return clone
}
