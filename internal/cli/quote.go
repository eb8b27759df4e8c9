package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/vihar/internal/textgen"
)

// NewQuoteCommand creates the quote command.
func NewQuoteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "quote",
		Short: "Print today's quote",
		Long: `Print a short quote on Jain principles. Without an API key, or when
generation fails or is interrupted, a fixed quote is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, rootOpts, func(ctx context.Context, env *Env) error {
				return env.Out.Success(quoteView{Quote: fetchQuote(ctx, env.TextGen(ctx))})
			})
		},
	}
}

// fetchQuote generates the quote in the background and gives up with the
// fallback when ctx ends first. Closing the scope drops a late result.
func fetchQuote(ctx context.Context, svc *textgen.Service) string {
	scope := textgen.NewScope()
	defer scope.Close()

	result := make(chan string, 1)
	textgen.Dispatch(scope,
		func() string { return svc.DailyQuote(ctx) },
		func(q string) { result <- q })

	select {
	case q := <-result:
		return q
	case <-ctx.Done():
		return textgen.FallbackQuote
	}
}
