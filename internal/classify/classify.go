// Package classify maps error kinds to presentation metadata and maps Go
// errors into the error kind taxonomy.
package classify

import (
	"github.com/dotcommander/mishap/internal/models"
)

func labels(actions ...models.Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.Label()
	}
	return out
}

// defaultSpec is the catch-all for kinds without an explicit row.
func defaultSpec() models.PresentationSpec {
	return models.PresentationSpec{
		Tier:        models.TierBanner,
		Actions:     []string{"OK"},
		Priority:    models.PriorityLow,
		Dismissible: true,
	}
}

func banner(p models.Priority, actions ...models.Action) models.PresentationSpec {
	return models.PresentationSpec{
		Tier:        models.TierBanner,
		Actions:     labels(actions...),
		Priority:    p,
		Dismissible: true,
	}
}

func modal(p models.Priority, dismissible bool, actions ...models.Action) models.PresentationSpec {
	return models.PresentationSpec{
		Tier:              models.TierModal,
		Actions:           labels(actions...),
		BlocksInteraction: true,
		Priority:          p,
		Dismissible:       dismissible,
	}
}

func inline(actions ...models.Action) models.PresentationSpec {
	return models.PresentationSpec{
		Tier:        models.TierInline,
		Actions:     labels(actions...),
		Priority:    models.PriorityMedium,
		Dismissible: true,
	}
}

// Present returns how k should be disclosed. It is pure: the same kind
// always yields an equal spec, and every call returns fresh slices.
//
//nolint:gocyclo // one row per code
func Present(k models.ErrorKind) models.PresentationSpec {
	if k == nil {
		return defaultSpec()
	}
	switch k.Code() {
	case models.CodeInvalidInput, models.CodeMissingRequiredField, models.CodeInvalidDateRange:
		return inline(models.ActionFixInput, models.ActionCancel)
	case models.CodeDuplicateEntry:
		return inline(models.ActionRename, models.ActionCancel)

	case models.CodeDatabaseCorrupted, models.CodeRelationshipIntegrity:
		return modal(models.PriorityHigh, false, models.ActionContactSupport, models.ActionRestartApp)
	case models.CodeCloudAuthFailed:
		return modal(models.PriorityHigh, true, models.ActionSignIn, models.ActionCancel)
	case models.CodeDiskSpaceInsufficient:
		return modal(models.PriorityHigh, true, models.ActionFreeUpSpace, models.ActionCancel)
	case models.CodeFileAlreadyExists:
		return modal(models.PriorityMedium, true, models.ActionReplaceFile, models.ActionKeepBoth, models.ActionCancel)
	case models.CodeOrganizationInUse:
		return modal(models.PriorityMedium, true, models.ActionReassignItems, models.ActionCancel)

	case models.CodeNetworkUnavailable, models.CodeCloudUnavailable, models.CodeCloudSyncFailed:
		return banner(models.PriorityMedium, models.ActionRetry, models.ActionWorkOffline)
	case models.CodeTimeout, models.CodeServerError:
		return banner(models.PriorityMedium, models.ActionRetry, models.ActionDismiss)
	case models.CodeDatabaseSaveFailed, models.CodeDatabaseLoadFailed, models.CodeImportFailed, models.CodeExportFailed:
		return banner(models.PriorityMedium, models.ActionRetry, models.ActionCancel)
	case models.CodeCloudQuotaExceeded:
		return banner(models.PriorityHigh, models.ActionManageStorage, models.ActionDismiss)
	case models.CodeFileNotFound, models.CodeFileCorrupted, models.CodeInvalidFileFormat, models.CodeCorruptedImportData:
		return banner(models.PriorityMedium, models.ActionChooseDifferentFile, models.ActionCancel)
	case models.CodeFilePermissionDenied:
		return banner(models.PriorityMedium, models.ActionOpenSettings, models.ActionCancel)
	case models.CodeOrganizationNotFound:
		return banner(models.PriorityMedium, models.ActionRefresh, models.ActionDismiss)
	case models.CodeCannotDeleteDefaultOrganization:
		spec := defaultSpec()
		spec.Priority = models.PriorityMedium
		return spec

	default:
		return defaultSpec()
	}
}

// Describe returns the accessibility descriptor for k.
func Describe(k models.ErrorKind) models.Accessibility {
	spec := Present(k)

	var hint string
	switch spec.Tier {
	case models.TierInline:
		hint = "Correct the highlighted field to continue."
	case models.TierModal:
		hint = "Choose an action to continue."
	default:
		hint = "Choose an action or dismiss this message."
	}

	return models.Accessibility{
		Label:               "Error: " + models.Title(k) + ". " + models.Message(k),
		Hint:                hint,
		AnnounceImmediately: spec.Tier == models.TierModal || spec.Priority == models.PriorityHigh,
		InterruptSpeech:     spec.Priority == models.PriorityHigh,
	}
}
