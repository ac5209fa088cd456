package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// envDefaults maps environment variables to the flags they default.
var envDefaults = map[string]string{
	"ERQSIM_LOG":        "log",
	"ERQSIM_RESULTS_DB": "results-db",
}

// loadEnvDefaults loads the given .env files (missing files are skipped) and
// applies the erqsim variables to flags the user did not set. Variables
// already in the environment take precedence over the files.
func loadEnvDefaults(cmd *cobra.Command, files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	for env, flag := range envDefaults {
		v, ok := os.LookupEnv(env)
		if !ok || v == "" {
			continue
		}
		fl := cmd.Flags().Lookup(flag)
		if fl == nil || fl.Changed {
			continue
		}
		if err := fl.Value.Set(v); err != nil {
			return fmt.Errorf("%s=%q: %w", env, v, err)
		}
	}
	return nil
}
