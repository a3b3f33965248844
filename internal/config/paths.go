package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Relative locations under the install directory.
const (
	DataSubdir    = "data"
	DataFile      = "energy_data.csv"
	ModelsSubdir  = "models"
	ModelFile     = "energy_forecast_model.json"
	ScriptsSubdir = "scripts"
	RulesFile     = "recommendations.yaml"
)

// Paths holds the filesystem locations the dashboard reads from.
type Paths struct {
	DataPath  string `json:"data_path"`
	ModelPath string `json:"model_path"`
	RulesPath string `json:"rules_path"`
	// RulesRequired is set when the rules file was configured explicitly and
	// must therefore exist.
	RulesRequired bool `json:"rules_required"`
}

// ResolvePaths joins the fixed data, model and rules locations onto baseDir.
func ResolvePaths(baseDir string) Paths {
	return Paths{
		DataPath:  filepath.Join(baseDir, DataSubdir, DataFile),
		ModelPath: filepath.Join(baseDir, ModelsSubdir, ModelFile),
		RulesPath: filepath.Join(baseDir, ScriptsSubdir, RulesFile),
	}
}

// ExecutableDir returns the directory containing the running binary.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("%w: locate executable: %v", ErrInstallDir, err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
