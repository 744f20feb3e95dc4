package cmd

import (
	"github.com/spf13/cobra"

	"pim.GO/core/registry"
)

func registered() []*cobra.Command {
	v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryCmd)
	if !ok || v == nil {
		return nil
	}
	return v.([]*cobra.Command)
}

// Register queues a command for the pim CLI. Call from init() in extension
// packages; panics once Apply has locked the command set.
func Register(c *cobra.Command) {
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryCmd) {
		panic("cmd: command set locked, register during init before Apply")
	}
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCmd, append(registered(), c))
}

// Apply attaches every queued command to the root and locks the set.
func Apply() {
	for _, c := range registered() {
		rootCmd.AddCommand(c)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryCmd)
}
