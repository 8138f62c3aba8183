package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driving/tui"
	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

var (
	askManual string
	askModel  string
	askTheme  string
	askJSON   bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about a manual",
	Long: `Answers a question from one ingested manual and cites the pages used.

The question can be given as arguments or piped on stdin. With no question
and an interactive terminal, an interactive session starts instead.

Examples:
  manualqa ask --manual x200-owners "How do I reset the device?"
  echo "Where is the fuse?" | manualqa ask -m x200-owners --json
  manualqa ask`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askManual, "manual", "m", "", "manual id to ask about (see 'manualqa manuals')")
	askCmd.Flags().StringVar(&askModel, "model", "", "model name overriding llm.model")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	askCmd.Flags().StringVar(&askTheme, "theme", "auto", "interactive colour theme: auto, dark, or light")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := requireServices(cmd); err != nil {
		return err
	}
	if askService == nil {
		return errors.New("ask service not configured")
	}

	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		if !askJSON && isTerminal(cmd.InOrStdin()) {
			return runInteractive(cmd)
		}
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading question: %w", err)
		}
		query = strings.TrimSpace(string(data))
	}
	if query == "" {
		return errors.New("no question given")
	}
	if askManual == "" {
		return errors.New("--manual is required; run 'manualqa manuals' to list ids")
	}

	answer, err := askService.Ask(cmd.Context(), domain.AskRequest{
		Query:    query,
		ManualID: askManual,
		Model:    askModel,
	})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputJSON(cmd, answer)
	}
	outputAnswer(cmd, answer)
	return nil
}

func outputAnswer(cmd *cobra.Command, answer *domain.Answer) {
	cmd.Println(answer.Answer)

	if answer.Partial {
		cmd.Println()
		cmd.Println("(answer interrupted: the model stream ended early)")
	}

	if len(answer.ManualSections) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Sources:")
	for _, sec := range answer.ManualSections {
		ref := fmt.Sprintf("[Page %d]", sec.Page)
		if sec.Product != nil {
			ref += " " + *sec.Product
		}
		cmd.Printf("  %s %s\n", ref, sec.Snippet)
	}
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func runInteractive(cmd *cobra.Command) (err error) {
	// Recover so a rendering bug leaves a readable trace instead of a garbled screen.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	app, err := tui.NewApp(
		&tui.Ports{Ask: askService, Catalog: catalogService},
		tui.Options{ManualID: askManual, Model: askModel, Theme: askTheme},
	)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
