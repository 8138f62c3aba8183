package file

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// DotEnvFile is looked up in the working directory.
const DotEnvFile = ".env"

// LoadDotEnv merges variables from the given .env files into the environment.
// Missing files are skipped; variables already set are not overridden.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{DotEnvFile}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return err
		}
	}
	return nil
}
