package metricskey

import "github.com/effective-security/metrics"

// Descriptions of emited metrics keys
var (
	RevocationCheckPerf = metrics.Describe{
		Name:         "revocation_check_perf",
		Type:         "summary",
		RequiredTags: []string{"status"},
		Help:         "revocation_check_perf provides quantiles for revocation checks.",
	}
	RevocationCheckByStatus = metrics.Describe{
		Name:         "revocation_check_status",
		Type:         "counter",
		RequiredTags: []string{"status"},
		Help:         "revocation_check_status provides counts of check outcomes: not_covered|revoked|not_revoked.",
	}

	ManifestLoadFailed = metrics.Describe{
		Name:         "manifest_load_failed",
		Type:         "counter",
		RequiredTags: []string{"reason"},
		Help:         "manifest_load_failed provides counts of failed manifest loads.",
	}
	ManifestGeneration = metrics.Describe{
		Name:         "manifest_generation",
		Type:         "gauge",
		RequiredTags: []string{},
		Help:         "manifest_generation provides the generation of the active manifest.",
	}

	ManifestRefreshed = metrics.Describe{
		Name:         "manifest_refreshed",
		Type:         "counter",
		RequiredTags: []string{},
		Help:         "manifest_refreshed provides counts of successful manifest refreshes.",
	}
	ManifestRefreshFailed = metrics.Describe{
		Name:         "manifest_refresh_failed",
		Type:         "counter",
		RequiredTags: []string{},
		Help:         "manifest_refresh_failed provides counts of failed manifest refreshes.",
	}
)

// Metrics is the list of emitted metrics
var Metrics = []*metrics.Describe{
	&RevocationCheckPerf,
	&RevocationCheckByStatus,
	&ManifestLoadFailed,
	&ManifestGeneration,
	&ManifestRefreshed,
	&ManifestRefreshFailed,
}
