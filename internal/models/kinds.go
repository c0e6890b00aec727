package models

// Code is the stable discriminant of an ErrorKind variant. Codes are
// persisted and appear on the wire, so they must never be renamed.
type Code string

// Error kind codes, grouped by category.
const (
	CodeDatabaseSaveFailed    Code = "database_save_failed"
	CodeDatabaseLoadFailed    Code = "database_load_failed"
	CodeDatabaseCorrupted     Code = "database_corrupted"
	CodeRelationshipIntegrity Code = "relationship_integrity"

	CodeFileNotFound          Code = "file_not_found"
	CodeFilePermissionDenied  Code = "file_permission_denied"
	CodeFileCorrupted         Code = "file_corrupted"
	CodeDiskSpaceInsufficient Code = "disk_space_insufficient"
	CodeFileAlreadyExists     Code = "file_already_exists"

	CodeNetworkUnavailable Code = "network_unavailable"
	CodeServerError        Code = "server_error"
	CodeTimeout            Code = "timeout"
	CodeInvalidURL         Code = "invalid_url"

	CodeCloudUnavailable   Code = "cloud_unavailable"
	CodeCloudQuotaExceeded Code = "cloud_quota_exceeded"
	CodeCloudSyncFailed    Code = "cloud_sync_failed"
	CodeCloudAuthFailed    Code = "cloud_auth_failed"

	CodeImportFailed        Code = "import_failed"
	CodeExportFailed        Code = "export_failed"
	CodeInvalidFileFormat   Code = "invalid_file_format"
	CodeCorruptedImportData Code = "corrupted_import_data"

	CodeInvalidInput         Code = "invalid_input"
	CodeMissingRequiredField Code = "missing_required_field"
	CodeDuplicateEntry       Code = "duplicate_entry"
	CodeInvalidDateRange     Code = "invalid_date_range"

	CodeOrganizationInUse               Code = "organization_in_use"
	CodeCannotDeleteDefaultOrganization Code = "cannot_delete_default_organization"
	CodeOrganizationNotFound            Code = "organization_not_found"

	CodeUnknown             Code = "unknown"
	CodeOperationCancelled  Code = "operation_cancelled"
	CodeFeatureNotAvailable Code = "feature_not_available"
)

// Category groups codes by the subsystem that failed.
type Category string

// Error categories.
const (
	CategoryDatabase     Category = "database"
	CategoryFileSystem   Category = "file_system"
	CategoryNetwork      Category = "network"
	CategoryCloudSync    Category = "cloud_sync"
	CategoryImportExport Category = "import_export"
	CategoryValidation   Category = "validation"
	CategoryOrganization Category = "organization"
	CategoryGeneral      Category = "general"
)

// Categories returns every category in a fixed order.
func Categories() []Category {
	return []Category{
		CategoryDatabase,
		CategoryFileSystem,
		CategoryNetwork,
		CategoryCloudSync,
		CategoryImportExport,
		CategoryValidation,
		CategoryOrganization,
		CategoryGeneral,
	}
}

// codeInfo is the static per-code lookup row.
type codeInfo struct {
	category    Category
	recoverable bool
	template    string
}

//nolint:gochecknoglobals // static lookup table
var codeTable = map[Code]codeInfo{
	CodeDatabaseSaveFailed:    {CategoryDatabase, true, "Your changes could not be saved."},
	CodeDatabaseLoadFailed:    {CategoryDatabase, true, "Your data could not be loaded."},
	CodeDatabaseCorrupted:     {CategoryDatabase, false, "The trip database is damaged and cannot be used safely."},
	CodeRelationshipIntegrity: {CategoryDatabase, false, "Related records are inconsistent and cannot be updated."},

	CodeFileNotFound:          {CategoryFileSystem, true, "The file could not be found."},
	CodeFilePermissionDenied:  {CategoryFileSystem, true, "Permission to access the file was denied."},
	CodeFileCorrupted:         {CategoryFileSystem, true, "The file is damaged and cannot be opened."},
	CodeDiskSpaceInsufficient: {CategoryFileSystem, true, "There is not enough storage space to complete this action."},
	CodeFileAlreadyExists:     {CategoryFileSystem, true, "A file with this name already exists."},

	CodeNetworkUnavailable: {CategoryNetwork, true, "No network connection is available."},
	CodeServerError:        {CategoryNetwork, true, "The server returned an error (%d): %s"},
	CodeTimeout:            {CategoryNetwork, true, "The request timed out."},
	CodeInvalidURL:         {CategoryNetwork, true, "The address is not a valid URL."},

	CodeCloudUnavailable:   {CategoryCloudSync, true, "iCloud is not available right now."},
	CodeCloudQuotaExceeded: {CategoryCloudSync, true, "Your iCloud storage is full."},
	CodeCloudSyncFailed:    {CategoryCloudSync, true, "Your trips could not be synced."},
	CodeCloudAuthFailed:    {CategoryCloudSync, false, "You are not signed in to iCloud."},

	CodeImportFailed:        {CategoryImportExport, true, "The import could not be completed."},
	CodeExportFailed:        {CategoryImportExport, true, "The export could not be completed."},
	CodeInvalidFileFormat:   {CategoryImportExport, true, "The file format is not supported."},
	CodeCorruptedImportData: {CategoryImportExport, true, "The imported data is damaged."},

	CodeInvalidInput:         {CategoryValidation, true, "The value for %s is not valid."},
	CodeMissingRequiredField: {CategoryValidation, true, "%s is required."},
	CodeDuplicateEntry:       {CategoryValidation, true, "%s already exists."},
	CodeInvalidDateRange:     {CategoryValidation, true, "The end date must be on or after the start date."},

	CodeOrganizationInUse:               {CategoryOrganization, true, "%q is still used by %d items."},
	CodeCannotDeleteDefaultOrganization: {CategoryOrganization, true, "The default organization cannot be deleted."},
	CodeOrganizationNotFound:            {CategoryOrganization, true, "The organization %q could not be found."},

	CodeUnknown:             {CategoryGeneral, true, "An unexpected error occurred."},
	CodeOperationCancelled:  {CategoryGeneral, true, "The operation was cancelled."},
	CodeFeatureNotAvailable: {CategoryGeneral, true, "%s is not available."},
}

// AllCodes returns every known code grouped by category.
func AllCodes() []Code {
	return []Code{
		CodeDatabaseSaveFailed, CodeDatabaseLoadFailed, CodeDatabaseCorrupted, CodeRelationshipIntegrity,
		CodeFileNotFound, CodeFilePermissionDenied, CodeFileCorrupted, CodeDiskSpaceInsufficient, CodeFileAlreadyExists,
		CodeNetworkUnavailable, CodeServerError, CodeTimeout, CodeInvalidURL,
		CodeCloudUnavailable, CodeCloudQuotaExceeded, CodeCloudSyncFailed, CodeCloudAuthFailed,
		CodeImportFailed, CodeExportFailed, CodeInvalidFileFormat, CodeCorruptedImportData,
		CodeInvalidInput, CodeMissingRequiredField, CodeDuplicateEntry, CodeInvalidDateRange,
		CodeOrganizationInUse, CodeCannotDeleteDefaultOrganization, CodeOrganizationNotFound,
		CodeUnknown, CodeOperationCancelled, CodeFeatureNotAvailable,
	}
}

// IsKnown reports whether c is part of the taxonomy.
func (c Code) IsKnown() bool {
	_, ok := codeTable[c]
	return ok
}

// Category returns the category of c; unknown codes are general.
func (c Code) Category() Category {
	if info, ok := codeTable[c]; ok {
		return info.category
	}
	return CategoryGeneral
}

// Recoverable reports whether the user or system can proceed after c.
func (c Code) Recoverable() bool {
	if info, ok := codeTable[c]; ok {
		return info.recoverable
	}
	return true
}
