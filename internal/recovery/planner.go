// Package recovery derives recovery plans from error kinds and drives
// automatic retries from those plans.
package recovery

import (
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/dotcommander/mishap/internal/app"
	"github.com/dotcommander/mishap/internal/models"
)

// Planner maps (kind, retry count) to a RecoveryPlan. A Planner is
// immutable after construction and safe for concurrent use.
type Planner struct {
	policies map[models.Category]app.RetryPolicy
}

// NewPlanner returns a planner over policies. Categories missing from
// policies use app.DefaultRetryPolicies.
func NewPlanner(policies map[models.Category]app.RetryPolicy) *Planner {
	merged := app.DefaultRetryPolicies()
	for cat, p := range policies {
		merged[cat] = p
	}
	return &Planner{policies: merged}
}

// DefaultPlanner uses the effective config.yaml policies.
func DefaultPlanner() *Planner {
	return NewPlanner(app.EffectiveRetryPolicies())
}

// Policy returns the retry policy governing k.
func (p *Planner) Policy(k models.ErrorKind) app.RetryPolicy {
	return p.policies[models.CategoryOf(k)]
}

// transient kinds may succeed if simply attempted again.
func transient(c models.Code) bool {
	switch c {
	case models.CodeNetworkUnavailable, models.CodeTimeout, models.CodeServerError,
		models.CodeCloudUnavailable, models.CodeCloudSyncFailed,
		models.CodeDatabaseSaveFailed, models.CodeDatabaseLoadFailed,
		models.CodeImportFailed, models.CodeExportFailed:
		return true
	default:
		return false
	}
}

// fallback is the primary action once automatic retries are exhausted.
func fallback(cat models.Category) models.Action {
	switch cat {
	case models.CategoryNetwork, models.CategoryCloudSync:
		return models.ActionWorkOffline
	case models.CategoryDatabase:
		return models.ActionContactSupport
	case models.CategoryImportExport:
		return models.ActionChooseDifferentFile
	default:
		return models.ActionCancel
	}
}

// Plan is total over its input: every kind, including nil, gets a plan.
// Negative retry counts are treated as zero.
//
//nolint:gocyclo,funlen // one branch per recovery family
func (p *Planner) Plan(k models.ErrorKind, retryCount int) models.RecoveryPlan {
	if retryCount < 0 {
		retryCount = 0
	}
	if k == nil {
		k = models.Unknown{}
	}
	code := k.Code()
	cat := models.CategoryOf(k)

	switch code {
	case models.CodeInvalidInput, models.CodeMissingRequiredField, models.CodeInvalidDateRange, models.CodeInvalidURL:
		return manual(models.ActionFixInput, "Correct the highlighted value and try again.", models.ActionCancel)
	case models.CodeDuplicateEntry:
		return manual(models.ActionRename, "Choose a different name.", models.ActionCancel)
	case models.CodeOrganizationInUse:
		return manual(models.ActionReassignItems, "Move its trips to another organization before deleting it.", models.ActionCancel)
	case models.CodeCannotDeleteDefaultOrganization:
		return manual(models.ActionSelectDifferentOrg, "Pick another organization to delete; the default one must remain.", models.ActionCancel)
	case models.CodeOrganizationNotFound:
		return manual(models.ActionRefresh, "Refresh the list; the organization may have been removed.", models.ActionCancel)
	case models.CodeCloudQuotaExceeded:
		return manual(models.ActionManageStorage, "Free up iCloud storage, then sync again.", models.ActionWorkOffline, models.ActionCancel)
	case models.CodeDiskSpaceInsufficient:
		return manual(models.ActionFreeUpSpace, "Delete unused files to free up space.", models.ActionCancel)
	case models.CodeDatabaseCorrupted, models.CodeRelationshipIntegrity:
		return manual(models.ActionContactSupport, "Your data may be damaged. Restart the app or contact support.", models.ActionRestartApp)
	case models.CodeCloudAuthFailed:
		return manual(models.ActionSignIn, "Sign in to iCloud to resume syncing.", models.ActionWorkOffline, models.ActionCancel)
	case models.CodeFileNotFound, models.CodeFileCorrupted, models.CodeInvalidFileFormat, models.CodeCorruptedImportData:
		return manual(models.ActionChooseDifferentFile, "Pick a different file.", models.ActionCancel)
	case models.CodeFilePermissionDenied:
		return manual(models.ActionOpenSettings, "Allow access to the file in Settings.", models.ActionCancel)
	case models.CodeFileAlreadyExists:
		return manual(models.ActionReplaceFile, "Replace the existing file or keep both.", models.ActionKeepBoth, models.ActionCancel)
	case models.CodeOperationCancelled:
		return manual(models.ActionRetry, "The operation was cancelled. Try again when ready.", models.ActionCancel)
	case models.CodeFeatureNotAvailable:
		return manual(models.ActionDismiss, "This feature is not available on this device.")
	}

	if !transient(code) {
		return p.generic(retryCount)
	}

	policy := p.policies[cat]
	if retryCount < policy.MaxAttempts {
		return models.RecoveryPlan{
			PrimaryAction:      models.ActionRetry,
			AlternativeActions: alternatives(models.ActionRetry, fallback(cat), models.ActionCancel),
			AutoRetryEligible:  true,
			RetryDelay:         Delay(policy, retryCount),
			GuidanceText:       "Retrying automatically.",
		}
	}

	primary := fallback(cat)
	guidance := "Automatic retries are exhausted. Try again later."
	switch primary {
	case models.ActionWorkOffline:
		guidance = "Keep working offline; changes sync when the connection returns."
	case models.ActionContactSupport:
		guidance = "Saving keeps failing. Contact support if this continues."
	case models.ActionChooseDifferentFile:
		guidance = "The file could not be processed. Try a different file."
	}
	return models.RecoveryPlan{
		PrimaryAction:      primary,
		AlternativeActions: alternatives(primary, models.ActionRetry, models.ActionCancel),
		GuidanceText:       guidance,
	}
}

// generic is the plan for kinds without a dedicated recovery.
func (p *Planner) generic(retryCount int) models.RecoveryPlan {
	policy := p.policies[models.CategoryGeneral]
	plan := models.RecoveryPlan{
		PrimaryAction:      models.ActionRetry,
		AlternativeActions: []models.Action{models.ActionCancel},
		GuidanceText:       "Something went wrong. Try again.",
	}
	if retryCount < policy.MaxAttempts {
		plan.AutoRetryEligible = true
		plan.RetryDelay = Delay(policy, retryCount)
	}
	return plan
}

func manual(primary models.Action, guidance string, alts ...models.Action) models.RecoveryPlan {
	return models.RecoveryPlan{
		PrimaryAction:      primary,
		AlternativeActions: alternatives(primary, alts...),
		GuidanceText:       guidance,
	}
}

// alternatives drops duplicates and the primary action, keeping order.
func alternatives(primary models.Action, alts ...models.Action) []models.Action {
	out := make([]models.Action, 0, len(alts))
	seen := map[models.Action]bool{primary: true}
	for _, a := range alts {
		if seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

// Delay returns the wait before retry number attempt (zero-based) under
// policy: BaseDelay doubled per attempt, capped at MaxDelay. The schedule
// is deterministic.
func Delay(policy app.RetryPolicy, attempt int) time.Duration {
	if policy.BaseDelay <= 0 {
		return 0
	}
	b := newSchedule(policy)
	d := b.NextBackOff()
	for i := 0; i < attempt && d != backoff.Stop; i++ {
		d = b.NextBackOff()
	}
	if d == backoff.Stop {
		return policy.MaxDelay
	}
	return d
}

func newSchedule(policy app.RetryPolicy) *backoff.ExponentialBackOff {
	maxDelay := policy.MaxDelay
	if maxDelay < policy.BaseDelay {
		maxDelay = policy.BaseDelay
	}
	b := &backoff.ExponentialBackOff{
		InitialInterval:     policy.BaseDelay,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         maxDelay,
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	b.Reset()
	return b
}

// BackOff adapts the plan schedule for k to backoff.BackOff. It yields
// backoff.Stop once the plan is no longer eligible for automatic retry.
func (p *Planner) BackOff(k models.ErrorKind) backoff.BackOff {
	return &planBackOff{planner: p, kind: k}
}

type planBackOff struct {
	planner *Planner
	kind    models.ErrorKind
	attempt int
}

func (b *planBackOff) NextBackOff() time.Duration {
	plan := b.planner.Plan(b.kind, b.attempt)
	if !plan.AutoRetryEligible {
		return backoff.Stop
	}
	b.attempt++
	return plan.RetryDelay
}

func (b *planBackOff) Reset() { b.attempt = 0 }
