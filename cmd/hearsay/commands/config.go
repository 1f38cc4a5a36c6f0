package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hearsay-ai/hearsay/go/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long: `Manage hearsay CLI configuration.

Configuration is stored in ~/.hearsay/hearsay/config.yaml.
Multiple contexts can be defined for different accounts or environments.
Each context holds credentials per provider plus default routing
(primary provider, fallback provider, orchestration strategy).`,
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Add a new context",
	Long: `Add a new context with provider credentials.

At least one provider must be configured. qwen and sensevoice take an
API key; doubao takes an app ID plus access key.

Examples:
  hearsay config add-context myctx --qwen-api-key sk-xxxxx --provider qwen
  hearsay config add-context myctx \
    --doubao-app-id 1234567 --doubao-access-key tok-xxxxx \
    --sensevoice-api-key sk-yyyyy \
    --provider doubao --fallback sensevoice --strategy race`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		qwenKey, _ := cmd.Flags().GetString("qwen-api-key")
		doubaoAppID, _ := cmd.Flags().GetString("doubao-app-id")
		doubaoKey, _ := cmd.Flags().GetString("doubao-access-key")
		svKey, _ := cmd.Flags().GetString("sensevoice-api-key")
		provider, _ := cmd.Flags().GetString("provider")
		fallback, _ := cmd.Flags().GetString("fallback")
		strategy, _ := cmd.Flags().GetString("strategy")

		ctx := &cli.Context{Name: name}
		if qwenKey != "" {
			ctx.Qwen = &cli.KeyCredentials{APIKey: qwenKey}
		}
		if doubaoAppID != "" || doubaoKey != "" {
			if doubaoAppID == "" || doubaoKey == "" {
				return fmt.Errorf("doubao requires both --doubao-app-id and --doubao-access-key")
			}
			ctx.Doubao = &cli.AppCredentials{AppID: doubaoAppID, AccessKey: doubaoKey}
		}
		if svKey != "" {
			ctx.SenseVoice = &cli.KeyCredentials{APIKey: svKey}
		}
		if ctx.Qwen == nil && ctx.Doubao == nil && ctx.SenseVoice == nil {
			return fmt.Errorf("at least one provider credential is required")
		}

		ctx.Provider = provider
		ctx.Fallback = fallback
		ctx.Strategy = strategy

		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		if err := cfg.AddContext(name, ctx); err != nil {
			return err
		}

		cli.PrintSuccess("Added context '%s'", name)
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		if err := cfg.DeleteContext(name); err != nil {
			return err
		}
		cli.PrintSuccess("Deleted context '%s'", name)
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the default context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		if err := cfg.UseContext(name); err != nil {
			return err
		}
		cli.PrintSuccess("Switched to context '%s'", name)
		return nil
	},
}

var configGetContextCmd = &cobra.Command{
	Use:   "get-context",
	Short: "Show the current context",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		if cfg.CurrentContext == "" {
			fmt.Println("No context selected")
			return nil
		}
		fmt.Println(cfg.CurrentContext)
		return nil
	},
}

var configListContextsCmd = &cobra.Command{
	Use:   "list-contexts",
	Short: "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		names := cfg.ListContexts()
		if len(names) == 0 {
			fmt.Println("No contexts. Create one with 'hearsay config add-context'.")
			return nil
		}

		for _, name := range names {
			prefix := "  "
			if name == cfg.CurrentContext {
				prefix = "* "
			}
			fmt.Println(prefix + name)
		}
		return nil
	},
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "View full configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Config file: %s\n", cfg.Path())
		fmt.Printf("Current context: %s\n", cfg.CurrentContext)
		fmt.Printf("Contexts: %d\n", len(cfg.Contexts))

		for _, name := range cfg.ListContexts() {
			ctx := cfg.Contexts[name]
			fmt.Printf("\n  %s:\n", name)

			if ctx.Qwen != nil {
				fmt.Println("    qwen (DashScope):")
				fmt.Printf("      API Key: %s\n", cli.MaskAPIKey(ctx.Qwen.APIKey))
			}
			if ctx.Doubao != nil {
				fmt.Println("    doubao (Volcengine):")
				fmt.Printf("      App ID: %s\n", ctx.Doubao.AppID)
				fmt.Printf("      Access Key: %s\n", cli.MaskAPIKey(ctx.Doubao.AccessKey))
			}
			if ctx.SenseVoice != nil {
				fmt.Println("    sensevoice (SiliconFlow):")
				fmt.Printf("      API Key: %s\n", cli.MaskAPIKey(ctx.SenseVoice.APIKey))
			}

			if ctx.Provider != "" {
				fmt.Printf("    Provider: %s\n", ctx.Provider)
			}
			if ctx.Fallback != "" {
				fmt.Printf("    Fallback: %s\n", ctx.Fallback)
			}
			if ctx.Strategy != "" {
				fmt.Printf("    Strategy: %s\n", ctx.Strategy)
			}
			if ctx.Timeout > 0 {
				fmt.Printf("    Timeout: %ds\n", ctx.Timeout)
			}
			if ctx.MaxRetries > 0 {
				fmt.Printf("    Max Retries: %d\n", ctx.MaxRetries)
			}
		}

		return nil
	},
}

func init() {
	configAddContextCmd.Flags().String("qwen-api-key", "", "DashScope API key for the qwen provider")
	configAddContextCmd.Flags().String("doubao-app-id", "", "Volcengine app ID for the doubao provider")
	configAddContextCmd.Flags().String("doubao-access-key", "", "Volcengine access token for the doubao provider")
	configAddContextCmd.Flags().String("sensevoice-api-key", "", "SiliconFlow API key for the sensevoice provider")
	configAddContextCmd.Flags().String("provider", "", "Default primary provider (qwen, doubao, sensevoice)")
	configAddContextCmd.Flags().String("fallback", "", "Default fallback provider")
	configAddContextCmd.Flags().String("strategy", "", "Default orchestration strategy (sequential, parallel, race)")

	configCmd.AddCommand(
		configAddContextCmd,
		configDeleteContextCmd,
		configUseContextCmd,
		configGetContextCmd,
		configListContextsCmd,
		configViewCmd,
	)
}
