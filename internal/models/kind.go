package models

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrorKind is a closed set of classified failures. The unexported method
// seals the interface: only the variant types in this file implement it.
type ErrorKind interface {
	Code() Code
	args() []any
}

// Variants without payload.
type (
	DatabaseSaveFailed              struct{}
	DatabaseLoadFailed              struct{}
	DatabaseCorrupted               struct{}
	RelationshipIntegrity           struct{}
	FileNotFound                    struct{}
	FilePermissionDenied            struct{}
	FileCorrupted                   struct{}
	DiskSpaceInsufficient           struct{}
	FileAlreadyExists               struct{}
	NetworkUnavailable              struct{}
	Timeout                         struct{}
	InvalidURL                      struct{}
	CloudUnavailable                struct{}
	CloudQuotaExceeded              struct{}
	CloudSyncFailed                 struct{}
	CloudAuthFailed                 struct{}
	ImportFailed                    struct{}
	ExportFailed                    struct{}
	InvalidFileFormat               struct{}
	CorruptedImportData             struct{}
	InvalidDateRange                struct{}
	CannotDeleteDefaultOrganization struct{}
	OperationCancelled              struct{}
)

// ServerError is a non-success response from a remote service.
type ServerError struct {
	Status  int
	Message string
}

// InvalidInput names the field whose value was rejected.
type InvalidInput struct{ Field string }

// MissingRequiredField names the empty required field.
type MissingRequiredField struct{ Field string }

// DuplicateEntry names the item that already exists.
type DuplicateEntry struct{ Item string }

// OrganizationInUse blocks deleting an organization that still owns items.
type OrganizationInUse struct {
	Name  string
	Count int
}

// OrganizationNotFound names the organization that was looked up.
type OrganizationNotFound struct{ Name string }

// Unknown carries the description of an error outside the taxonomy.
type Unknown struct{ Detail string }

// FeatureNotAvailable names the feature the user tried to reach.
type FeatureNotAvailable struct{ Name string }

func (DatabaseSaveFailed) Code() Code { return CodeDatabaseSaveFailed }
func (DatabaseLoadFailed) Code() Code { return CodeDatabaseLoadFailed }
func (DatabaseCorrupted) Code() Code { return CodeDatabaseCorrupted }
func (RelationshipIntegrity) Code() Code { return CodeRelationshipIntegrity }
func (FileNotFound) Code() Code { return CodeFileNotFound }
func (FilePermissionDenied) Code() Code { return CodeFilePermissionDenied }
func (FileCorrupted) Code() Code { return CodeFileCorrupted }
func (DiskSpaceInsufficient) Code() Code { return CodeDiskSpaceInsufficient }
func (FileAlreadyExists) Code() Code { return CodeFileAlreadyExists }
func (NetworkUnavailable) Code() Code { return CodeNetworkUnavailable }
func (ServerError) Code() Code { return CodeServerError }
func (Timeout) Code() Code { return CodeTimeout }
func (InvalidURL) Code() Code { return CodeInvalidURL }
func (CloudUnavailable) Code() Code { return CodeCloudUnavailable }
func (CloudQuotaExceeded) Code() Code { return CodeCloudQuotaExceeded }
func (CloudSyncFailed) Code() Code { return CodeCloudSyncFailed }
func (CloudAuthFailed) Code() Code { return CodeCloudAuthFailed }
func (ImportFailed) Code() Code { return CodeImportFailed }
func (ExportFailed) Code() Code { return CodeExportFailed }
func (InvalidFileFormat) Code() Code { return CodeInvalidFileFormat }
func (CorruptedImportData) Code() Code { return CodeCorruptedImportData }
func (InvalidInput) Code() Code { return CodeInvalidInput }
func (MissingRequiredField) Code() Code { return CodeMissingRequiredField }
func (DuplicateEntry) Code() Code { return CodeDuplicateEntry }
func (InvalidDateRange) Code() Code { return CodeInvalidDateRange }
func (OrganizationInUse) Code() Code { return CodeOrganizationInUse }
func (CannotDeleteDefaultOrganization) Code() Code { return CodeCannotDeleteDefaultOrganization }
func (OrganizationNotFound) Code() Code { return CodeOrganizationNotFound }
func (Unknown) Code() Code { return CodeUnknown }
func (OperationCancelled) Code() Code { return CodeOperationCancelled }
func (FeatureNotAvailable) Code() Code { return CodeFeatureNotAvailable }

func (DatabaseSaveFailed) args() []any { return nil }
func (DatabaseLoadFailed) args() []any { return nil }
func (DatabaseCorrupted) args() []any { return nil }
func (RelationshipIntegrity) args() []any { return nil }
func (FileNotFound) args() []any { return nil }
func (FilePermissionDenied) args() []any { return nil }
func (FileCorrupted) args() []any { return nil }
func (DiskSpaceInsufficient) args() []any { return nil }
func (FileAlreadyExists) args() []any { return nil }
func (NetworkUnavailable) args() []any { return nil }
func (k ServerError) args() []any { return []any{k.Status, k.Message} }
func (Timeout) args() []any { return nil }
func (InvalidURL) args() []any { return nil }
func (CloudUnavailable) args() []any { return nil }
func (CloudQuotaExceeded) args() []any { return nil }
func (CloudSyncFailed) args() []any { return nil }
func (CloudAuthFailed) args() []any { return nil }
func (ImportFailed) args() []any { return nil }
func (ExportFailed) args() []any { return nil }
func (InvalidFileFormat) args() []any { return nil }
func (CorruptedImportData) args() []any { return nil }
func (k InvalidInput) args() []any { return []any{k.Field} }
func (k MissingRequiredField) args() []any { return []any{k.Field} }
func (k DuplicateEntry) args() []any { return []any{k.Item} }
func (InvalidDateRange) args() []any { return nil }
func (k OrganizationInUse) args() []any { return []any{k.Name, k.Count} }
func (CannotDeleteDefaultOrganization) args() []any { return nil }
func (k OrganizationNotFound) args() []any { return []any{k.Name} }
func (k Unknown) args() []any { return []any{k.Detail} }
func (OperationCancelled) args() []any { return nil }
func (k FeatureNotAvailable) args() []any { return []any{k.Name} }

//nolint:gochecknoglobals // printers are safe for concurrent use once built
var printer = message.NewPrinter(language.English)

// Message renders the human-readable message for k.
func Message(k ErrorKind) string {
	if k == nil {
		return codeTable[CodeUnknown].template
	}
	if u, ok := k.(Unknown); ok {
		if d := strings.TrimSpace(u.Detail); d != "" {
			return d
		}
		return codeTable[CodeUnknown].template
	}
	info, ok := codeTable[k.Code()]
	if !ok {
		return codeTable[CodeUnknown].template
	}
	if a := k.args(); len(a) > 0 {
		return printer.Sprintf(info.template, a...)
	}
	return info.template
}

// Title returns a short headline for k.
func Title(k ErrorKind) string {
	switch CategoryOf(k) {
	case CategoryDatabase:
		return "Data Error"
	case CategoryFileSystem:
		return "File Error"
	case CategoryNetwork:
		return "Connection Problem"
	case CategoryCloudSync:
		return "iCloud Sync Problem"
	case CategoryImportExport:
		return "Import/Export Failed"
	case CategoryValidation:
		return "Check Your Input"
	case CategoryOrganization:
		return "Organization Error"
	default:
		return "Something Went Wrong"
	}
}

// CategoryOf returns the category k belongs to; nil is general.
func CategoryOf(k ErrorKind) Category {
	if k == nil {
		return CategoryGeneral
	}
	return k.Code().Category()
}

// IsRecoverable reports whether work can continue after k.
func IsRecoverable(k ErrorKind) bool {
	if k == nil {
		return true
	}
	return k.Code().Recoverable()
}

// ValidateKind checks the payload invariant: variants whose message
// interpolates a field must carry a non-empty value for it.
func ValidateKind(k ErrorKind) error {
	if k == nil {
		return &InvalidKindError{Reason: "error kind is required"}
	}
	blank := func(s string) bool { return strings.TrimSpace(s) == "" }
	switch v := k.(type) {
	case ServerError:
		if v.Status <= 0 {
			return &InvalidKindError{Code: v.Code(), Field: "status", Reason: "server status must be positive"}
		}
	case InvalidInput:
		if blank(v.Field) {
			return &InvalidKindError{Code: v.Code(), Field: "field", Reason: "field name is required"}
		}
	case MissingRequiredField:
		if blank(v.Field) {
			return &InvalidKindError{Code: v.Code(), Field: "field", Reason: "field name is required"}
		}
	case DuplicateEntry:
		if blank(v.Item) {
			return &InvalidKindError{Code: v.Code(), Field: "item", Reason: "item name is required"}
		}
	case OrganizationInUse:
		if blank(v.Name) {
			return &InvalidKindError{Code: v.Code(), Field: "name", Reason: "organization name is required"}
		}
		if v.Count < 0 {
			return &InvalidKindError{Code: v.Code(), Field: "count", Reason: "item count must not be negative"}
		}
	case OrganizationNotFound:
		if blank(v.Name) {
			return &InvalidKindError{Code: v.Code(), Field: "name", Reason: "organization name is required"}
		}
	case FeatureNotAvailable:
		if blank(v.Name) {
			return &InvalidKindError{Code: v.Code(), Field: "name", Reason: "feature name is required"}
		}
	}
	return nil
}

// KindPayload is the flat form of every variant payload, used when a kind
// is built from untyped input such as CLI flags.
type KindPayload struct {
	Field   string `json:"field,omitempty"`
	Item    string `json:"item,omitempty"`
	Name    string `json:"name,omitempty"`
	Count   int    `json:"count,omitempty"`
	Status  int    `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// ParseKind builds the variant identified by code and validates its payload.
//
//nolint:gocyclo,funlen // one branch per variant
func ParseKind(code string, p KindPayload) (ErrorKind, error) {
	var k ErrorKind
	switch Code(strings.TrimSpace(code)) {
	case CodeDatabaseSaveFailed:
		k = DatabaseSaveFailed{}
	case CodeDatabaseLoadFailed:
		k = DatabaseLoadFailed{}
	case CodeDatabaseCorrupted:
		k = DatabaseCorrupted{}
	case CodeRelationshipIntegrity:
		k = RelationshipIntegrity{}
	case CodeFileNotFound:
		k = FileNotFound{}
	case CodeFilePermissionDenied:
		k = FilePermissionDenied{}
	case CodeFileCorrupted:
		k = FileCorrupted{}
	case CodeDiskSpaceInsufficient:
		k = DiskSpaceInsufficient{}
	case CodeFileAlreadyExists:
		k = FileAlreadyExists{}
	case CodeNetworkUnavailable:
		k = NetworkUnavailable{}
	case CodeServerError:
		k = ServerError{Status: p.Status, Message: p.Message}
	case CodeTimeout:
		k = Timeout{}
	case CodeInvalidURL:
		k = InvalidURL{}
	case CodeCloudUnavailable:
		k = CloudUnavailable{}
	case CodeCloudQuotaExceeded:
		k = CloudQuotaExceeded{}
	case CodeCloudSyncFailed:
		k = CloudSyncFailed{}
	case CodeCloudAuthFailed:
		k = CloudAuthFailed{}
	case CodeImportFailed:
		k = ImportFailed{}
	case CodeExportFailed:
		k = ExportFailed{}
	case CodeInvalidFileFormat:
		k = InvalidFileFormat{}
	case CodeCorruptedImportData:
		k = CorruptedImportData{}
	case CodeInvalidInput:
		k = InvalidInput{Field: p.Field}
	case CodeMissingRequiredField:
		k = MissingRequiredField{Field: p.Field}
	case CodeDuplicateEntry:
		k = DuplicateEntry{Item: p.Item}
	case CodeInvalidDateRange:
		k = InvalidDateRange{}
	case CodeOrganizationInUse:
		k = OrganizationInUse{Name: p.Name, Count: p.Count}
	case CodeCannotDeleteDefaultOrganization:
		k = CannotDeleteDefaultOrganization{}
	case CodeOrganizationNotFound:
		k = OrganizationNotFound{Name: p.Name}
	case CodeUnknown:
		k = Unknown{Detail: p.Detail}
	case CodeOperationCancelled:
		k = OperationCancelled{}
	case CodeFeatureNotAvailable:
		k = FeatureNotAvailable{Name: p.Name}
	default:
		return nil, &InvalidKindError{Code: Code(code), Reason: fmt.Sprintf("unknown error kind %q", code)}
	}
	if err := ValidateKind(k); err != nil {
		return nil, err
	}
	return k, nil
}

// PayloadOf flattens the payload of k; the inverse of ParseKind.
func PayloadOf(k ErrorKind) KindPayload {
	switch v := k.(type) {
	case ServerError:
		return KindPayload{Status: v.Status, Message: v.Message}
	case InvalidInput:
		return KindPayload{Field: v.Field}
	case MissingRequiredField:
		return KindPayload{Field: v.Field}
	case DuplicateEntry:
		return KindPayload{Item: v.Item}
	case OrganizationInUse:
		return KindPayload{Name: v.Name, Count: v.Count}
	case OrganizationNotFound:
		return KindPayload{Name: v.Name}
	case Unknown:
		return KindPayload{Detail: v.Detail}
	case FeatureNotAvailable:
		return KindPayload{Name: v.Name}
	default:
		return KindPayload{}
	}
}
