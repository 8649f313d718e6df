package artifacts

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/issue-tracker/internal/config"
	"github.com/scan-io-git/issue-tracker/pkg/shared"
	"github.com/scan-io-git/issue-tracker/pkg/shared/files"
)

// GetArtifactName returns the artifact name of a command run.
// Example: track_2025-09-15T08:28:46Z.scanio-artifact.
func GetArtifactName(command string, t time.Time) string {
	return fmt.Sprintf("%s_%s.scanio-artifact", command, t.UTC().Format(time.RFC3339))
}

// GetArtifactsHome returns the folder artifacts are written to.
func GetArtifactsHome(cfg *config.Config) string {
	return filepath.Join(config.GetTrackerHome(cfg), "artifacts")
}

// SaveArtifactJSON writes result to <artifacts>/<name>.json and returns the full path.
func SaveArtifactJSON(cfg *config.Config, logger hclog.Logger, command string, result shared.GenericLaunchesResult, now time.Time) (string, error) {
	dir := GetArtifactsHome(cfg)
	path := filepath.Join(dir, GetArtifactName(command, now)+".json")

	resultData, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return path, fmt.Errorf("error marshaling the result data: %w", err)
	}

	if err := files.CreateFolderIfNotExists(dir); err != nil {
		return path, err
	}
	if err := files.WriteJsonFile(path, resultData); err != nil {
		return path, fmt.Errorf("error writing result to artifact file: %w", err)
	}
	logger.Info("artifact saved to file", "path", path)

	return path, nil
}
