package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// flagReader reads flags of one command and keeps the first error, so
// run functions check once after reading everything they need.
type flagReader struct {
	cmd *cobra.Command
	err error
}

func readFlags(cmd *cobra.Command) *flagReader { return &flagReader{cmd: cmd} }

// set finds name among the command's own flags, then the root's
// persistent ones.
func (r *flagReader) set(name string) *pflag.FlagSet {
	if fs := r.cmd.Flags(); fs.Lookup(name) != nil {
		return fs
	}
	return r.cmd.Root().PersistentFlags()
}

func (r *flagReader) fail(name string, err error) {
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("failed to get %s flag: %w", name, err)
	}
}

func (r *flagReader) Bool(name string) bool {
	v, err := r.set(name).GetBool(name)
	r.fail(name, err)
	return v
}

func (r *flagReader) String(name string) string {
	v, err := r.set(name).GetString(name)
	r.fail(name, err)
	return v
}

func (r *flagReader) Int(name string) int {
	v, err := r.set(name).GetInt(name)
	r.fail(name, err)
	return v
}

// Has reports whether the command defines name at all.
func (r *flagReader) Has(name string) bool {
	return r.set(name).Lookup(name) != nil
}

func (r *flagReader) Err() error { return r.err }
