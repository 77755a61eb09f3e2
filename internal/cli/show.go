package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Rrens/interaction-drafts/internal/app"
	"github.com/Rrens/interaction-drafts/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var showFormat string

type yamlInteraction struct {
	ID        string    `yaml:"id"`
	AgentName string    `yaml:"agentName"`
	Role      string    `yaml:"role"`
	Summary   string    `yaml:"summary,omitempty"`
	Variables []string  `yaml:"variables,omitempty"`
	Content   string    `yaml:"content,omitempty"`
	CreatedAt time.Time `yaml:"createdAt"`
	UpdatedAt time.Time `yaml:"updatedAt"`
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current draft",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, nil, func(a *app.App) error {
			out, err := render(a.Editor.View().Interactions, showFormat)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		})
	},
}

func render(ws domain.Workspace, format string) ([]byte, error) {
	switch format {
	case "json":
		out, err := json.MarshalIndent(ws, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case "yaml":
		items := make([]yamlInteraction, len(ws))
		for i, it := range ws {
			items[i] = yamlInteraction{
				ID:        it.ID,
				AgentName: it.AgentName,
				Role:      string(it.Role),
				Summary:   it.Summary,
				Variables: it.Variables,
				Content:   it.Content,
				CreatedAt: it.CreatedAt,
				UpdatedAt: it.UpdatedAt,
			}
		}
		return yaml.Marshal(items)
	default:
		return nil, fmt.Errorf("unsupported format %q (use json or yaml)", format)
	}
}

func init() {
	showCmd.Flags().StringVarP(&showFormat, "format", "f", "json", "Output format: json or yaml")
	rootCmd.AddCommand(showCmd)
}
