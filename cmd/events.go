package cmd

import (
	"encoding/json"
	"os"

	"github.com/anisan-cli/vigil/color"
	"github.com/anisan-cli/vigil/playback"
	"github.com/anisan-cli/vigil/style"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsSchemaCmd)
	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsStatesCmd)

	eventsListCmd.Flags().BoolP("sentinel", "s", false, "List only sentinel events")
	eventsCmd.SetOut(os.Stdout)
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Describe the events emitted with play --json",
}

var eventsSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON schema of play --json output lines",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.DoNotReference = true

		schema := reflector.Reflect(&playback.Record{})
		schema.Title = "vigil playback event"

		handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(schema))
	},
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every event type",
	Run: func(cmd *cobra.Command, args []string) {
		types := playback.EventTypes()
		if lo.Must(cmd.Flags().GetBool("sentinel")) {
			types = lo.Filter(types, func(t playback.EventType, _ int) bool {
				return t.IsSentinel()
			})
		}

		for _, t := range types {
			if t.IsSentinel() {
				cmd.Println(style.Fg(color.Orange)(string(t)))
			} else {
				cmd.Println(style.Fg(color.Purple)(string(t)))
			}
		}
	},
}

var eventsStatesCmd = &cobra.Command{
	Use:   "states",
	Short: "List every playback state an event can carry",
	Run: func(cmd *cobra.Command, args []string) {
		for _, s := range playback.States() {
			cmd.Println(style.Bold(s.String()))
		}
	},
}
