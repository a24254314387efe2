package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nuwa-ai/nuwascript/internal/diag"
	"github.com/nuwa-ai/nuwascript/pkg/nuwascript"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Execute a NuwaScript file against a demo tool registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		rt := newDemoRuntime()
		if err := loadPersistedState(rt); err != nil {
			return fmt.Errorf("loading persisted state: %w", err)
		}

		finalScope, err := rt.Execute(context.Background(), string(src), nil)
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), diag.Format(err, string(src), path, useColor()))
			if perr := savePersistedState(rt); perr != nil {
				logger.Warnw("failed to persist state after error", "error", perr)
			}
			os.Exit(1)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "final scope:")
		for name, v := range finalScope {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s\n", name, nuwascript.Stringify(v))
		}
		return savePersistedState(rt)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// newDemoRuntime builds a Runtime with two illustrative tools so the
// repository is runnable out of the box.
func newDemoRuntime() *nuwascript.Runtime {
	rt := nuwascript.New()
	if verbose {
		rt.SetLogger(logger)
	}
	if cfg.Limits.MaxSteps > 0 {
		rt.SetMaxSteps(cfg.Limits.MaxSteps)
	}

	prices := map[string]float64{"BTC": 65000, "ETH": 3200, "SOL": 140}
	_ = rt.Register(nuwascript.Schema{
		Name:        "get_price",
		Description: "Returns the current price in USD for a token symbol.",
		Parameters: []nuwascript.Parameter{
			{Name: "token", Type: nuwascript.ParamString, Required: true},
		},
		Returns: nuwascript.ReturnSchema{Description: "price in USD", Type: nuwascript.ParamNumber},
	}, func(ctx context.Context, args map[string]nuwascript.Value, tc nuwascript.ToolContext) (nuwascript.Value, error) {
		token, _ := args["token"].AsString()
		price, ok := prices[token]
		if !ok {
			return nuwascript.Null, fmt.Errorf("unknown token %q", token)
		}
		return nuwascript.Number(price), nil
	})

	weather := map[string]string{"Paris": "cloudy", "Tokyo": "clear", "Cairo": "sunny"}
	_ = rt.Register(nuwascript.Schema{
		Name:        "get_weather",
		Description: "Returns a short weather description for a city.",
		Parameters: []nuwascript.Parameter{
			{Name: "city", Type: nuwascript.ParamString, Required: true},
		},
		Returns: nuwascript.ReturnSchema{Description: "conditions", Type: nuwascript.ParamString},
	}, func(ctx context.Context, args map[string]nuwascript.Value, tc nuwascript.ToolContext) (nuwascript.Value, error) {
		city, _ := args["city"].AsString()
		cond, ok := weather[city]
		if !ok {
			cond = "unknown"
		}
		return nuwascript.String(cond), nil
	})

	return rt
}

// loadPersistedState and savePersistedState implement the CLI's optional
// between-run state persistence (config [state] persist_path). This is a
// host-side convenience built entirely on the public state API — the
// language core has no notion of persistence across runs.
func loadPersistedState(rt *nuwascript.Runtime) error {
	if cfg.State.PersistPath == "" {
		return nil
	}
	data, err := os.ReadFile(cfg.State.PersistPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, msg := range raw {
		v, err := decodeJSONValue(msg)
		if err != nil {
			return err
		}
		rt.SetState(key, v)
	}
	return nil
}

func savePersistedState(rt *nuwascript.Runtime) error {
	if cfg.State.PersistPath == "" {
		return nil
	}
	out := map[string]any{}
	for key, v := range rt.GetAllState() {
		out[key] = encodeJSONValue(v)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(cfg.State.PersistPath, data, 0o644)
}
