package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
)

// AppDir is the directory name used under the platform config dir.
const AppDir = "wordcheck"

// dictionaryPattern matches the file names dictionaries are usually shipped as.
const dictionaryPattern = "**/*.{txt,dict,lst,dic}"

// PathResolver finds dictionary and config files relative to the binary, the
// working directory and the user config dir.
type PathResolver struct {
	executablePath string
	executableDir  string
	homeDir        string
	configDir      string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}

	// Resolve any symlinks to get the actual binary location
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executablePath: execPath,
		executableDir:  filepath.Dir(execPath),
		homeDir:        homeDir,
		configDir:      getConfigDir(homeDir),
	}

	log.Debugf("PathResolver initialized: exec=%s, configDir=%s", execPath, pr.configDir)
	return pr, nil
}

// getConfigDir returns the appropriate config directory for the platform
func getConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, ".config", AppDir)
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, AppDir)
		}
		return filepath.Join(homeDir, ".config", AppDir)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppDir)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", AppDir)
	default:
		return filepath.Join(homeDir, "."+AppDir)
	}
}

// FindDictionary resolves a dictionary file name. It tries, in order:
// the path as given, next to the executable, the executable's data/ dir and
// the config dir. When nothing matches the path is returned unchanged so the
// loader reports the real error.
func (pr *PathResolver) FindDictionary(userPath string) string {
	for _, path := range pr.dictionaryCandidates(userPath) {
		if isDictionaryFile(path) {
			log.Debugf("Found dictionary: %s", path)
			return path
		}
		log.Debugf("Dictionary candidate not valid: %s", path)
	}
	return userPath
}

func (pr *PathResolver) dictionaryCandidates(userPath string) []string {
	candidates := []string{userPath}
	if filepath.IsAbs(userPath) {
		return candidates
	}
	return append(candidates,
		filepath.Join(pr.executableDir, userPath),
		filepath.Join(pr.executableDir, "data", userPath),
		filepath.Join(pr.configDir, userPath),
	)
}

// isDictionaryFile checks for a non-empty regular file.
func isDictionaryFile(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.Mode().IsRegular() && stat.Size() > 0
}

// ListDictionaries returns dictionary-looking files below dir.
func ListDictionaries(dir string) []string {
	matches, err := doublestar.Glob(os.DirFS(dir), dictionaryPattern)
	if err != nil {
		return []string{}
	}
	paths := make([]string, len(matches))
	for i, m := range matches {
		paths[i] = filepath.Join(dir, filepath.FromSlash(m))
	}
	return paths
}

// GetExecutableDir returns the directory containing the executable
func (pr *PathResolver) GetExecutableDir() string {
	return pr.executableDir
}

// GetConfigDir returns the config directory
func (pr *PathResolver) GetConfigDir() string {
	return pr.configDir
}

// GetRuntimeInfo returns debug information about the current runtime environment
func (pr *PathResolver) GetRuntimeInfo() map[string]string {
	cwd, _ := os.Getwd()

	info := map[string]string{
		"executable_path": pr.executablePath,
		"executable_dir":  pr.executableDir,
		"current_dir":     cwd,
		"home_dir":        pr.homeDir,
		"config_dir":      pr.configDir,
		"os":              runtime.GOOS,
		"arch":            runtime.GOARCH,
	}

	for _, envVar := range []string{"HOME", "XDG_CONFIG_HOME", "APPDATA"} {
		if value := os.Getenv(envVar); value != "" {
			info["env_"+strings.ToLower(envVar)] = value
		}
	}
	return info
}

// DiagnosePathIssues reports how a dictionary path was resolved and which
// candidates were tried.
func (pr *PathResolver) DiagnosePathIssues(userPath string) map[string]any {
	diag := map[string]any{
		"runtime_info": pr.GetRuntimeInfo(),
		"resolved":     pr.FindDictionary(userPath),
	}

	candidates := pr.dictionaryCandidates(userPath)
	tests := make([]map[string]any, 0, len(candidates))
	for _, c := range candidates {
		tests = append(tests, map[string]any{
			"path":     c,
			"exists":   FileExists(c),
			"is_valid": isDictionaryFile(c),
		})
	}
	diag["candidates"] = tests
	diag["config_dir_dictionaries"] = ListDictionaries(pr.configDir)
	return diag
}
