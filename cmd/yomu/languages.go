package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kerbaras/yomu/pkg/data"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages and models",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			purple = lipgloss.Color("99")

			headerStyle = lipgloss.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center)
			cellStyle   = lipgloss.NewStyle().Padding(0, 1)
		)
		styleFunc := func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}

		langs := table.New().
			Border(lipgloss.HiddenBorder()).
			StyleFunc(styleFunc).
			Headers("Code", "Language")
		for _, l := range data.Languages {
			langs.Row(l.Code, l.Name)
		}

		models := table.New().
			Border(lipgloss.HiddenBorder()).
			StyleFunc(styleFunc).
			Headers("Kind", "Value", "Model")
		for _, m := range data.TranslationModels {
			models.Row("translation", m.Value, m.Label)
		}
		for _, m := range data.ColorizationModels {
			models.Row("colorization", m.Value, m.Label)
		}

		fmt.Println("🌐 Languages")
		fmt.Println(langs)
		fmt.Println("🤖 Models")
		fmt.Println(models)
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
