package provision

import "github.com/relaykit/quoterelay/internal/records"

// Metaobject types and metafield coordinates owned by this app.
const (
	SubmissionType = "$app:quote_submission"
	SettingsType   = "$app:quote_settings"

	FlagNamespace  = "$app:quoterelay"
	FlagRFQEnabled = "rfq_enabled"
	FlagHidePrice  = "hide_price"
)

// Field keys of the quote submission metaobject.
const (
	FieldProductTitle    = "product_title"
	FieldVariantTitle    = "variant_title"
	FieldCustomerName    = "customer_name"
	FieldCustomerEmail   = "customer_email"
	FieldCustomerPhone   = "customer_phone"
	FieldCustomerCompany = "customer_company"
	FieldQuantity        = "quantity"
	FieldRequestDetails  = "request_details"
	FieldStatus          = "status"
)

// Field keys of the settings metaobject.
const (
	FieldNotificationEmail = "notification_email"
	FieldPhoneNumber       = "phone_number"
	FieldFormTitle         = "form_title"
	FieldFormDescription   = "form_description"
	FieldSuccessMessage    = "success_message"
)

const (
	typeSingleLineText = "single_line_text_field"
	typeMultiLineText  = "multi_line_text_field"
	typeBoolean        = "boolean"
)

// SubmissionDefinition is the schema of a quote submission record.
// Merchant-only access: submissions are never readable from the storefront.
func SubmissionDefinition() records.MetaobjectDefinition {
	return records.MetaobjectDefinition{
		Type: SubmissionType,
		Name: "Quote Submission",
		Fields: []records.FieldDefinition{
			{Key: FieldProductTitle, Name: "Product", Type: typeSingleLineText},
			{Key: FieldVariantTitle, Name: "Variant", Type: typeSingleLineText},
			{Key: FieldCustomerName, Name: "Customer Name", Type: typeSingleLineText, Required: true},
			{Key: FieldCustomerEmail, Name: "Customer Email", Type: typeSingleLineText, Required: true},
			{Key: FieldCustomerPhone, Name: "Customer Phone", Type: typeSingleLineText},
			{Key: FieldCustomerCompany, Name: "Company", Type: typeSingleLineText},
			{Key: FieldQuantity, Name: "Quantity", Type: typeSingleLineText},
			{Key: FieldRequestDetails, Name: "Request Details", Type: typeMultiLineText},
			{Key: FieldStatus, Name: "Status", Type: typeSingleLineText, Required: true,
				Choices: []string{"pending", "contacted", "quoted", "completed", "cancelled"}},
		},
	}
}

// SettingsDefinition is the schema of the per-shop settings singleton.
// Public read so the storefront form can fetch its own copy.
func SettingsDefinition() records.MetaobjectDefinition {
	return records.MetaobjectDefinition{
		Type:       SettingsType,
		Name:       "Quote Settings",
		PublicRead: true,
		Fields: []records.FieldDefinition{
			{Key: FieldNotificationEmail, Name: "Notification Email", Type: typeSingleLineText},
			{Key: FieldPhoneNumber, Name: "Phone Number", Type: typeSingleLineText},
			{Key: FieldFormTitle, Name: "Form Title", Type: typeSingleLineText},
			{Key: FieldFormDescription, Name: "Form Description", Type: typeMultiLineText},
			{Key: FieldSuccessMessage, Name: "Success Message", Type: typeMultiLineText},
		},
	}
}

// ProductFlagDefinitions are the two per-product booleans the storefront
// theme branches on: whether the quote form is enabled and whether the price
// is hidden.
func ProductFlagDefinitions() []records.MetafieldDefinition {
	return []records.MetafieldDefinition{
		{
			Namespace:  FlagNamespace,
			Key:        FlagRFQEnabled,
			Name:       "Request a quote enabled",
			Type:       typeBoolean,
			OwnerType:  "PRODUCT",
			PublicRead: true,
		},
		{
			Namespace:  FlagNamespace,
			Key:        FlagHidePrice,
			Name:       "Hide price",
			Type:       typeBoolean,
			OwnerType:  "PRODUCT",
			PublicRead: true,
		},
	}
}
