package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// applyConfigFlagOverrides copies flags the user set into v under the config
// keys they map to. Set values win over file and env.
func applyConfigFlagOverrides(cmd *cobra.Command, v *viper.Viper, keys map[string]string) {
	for name, key := range keys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		var val any
		var err error
		switch flag.Value.Type() {
		case "bool":
			val, err = cmd.Flags().GetBool(name)
		case "int":
			val, err = cmd.Flags().GetInt(name)
		case "stringSlice":
			val, err = cmd.Flags().GetStringSlice(name)
		default:
			val = flag.Value.String()
		}
		if err == nil {
			v.Set(key, val)
		}
	}
}
