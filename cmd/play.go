package cmd

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/anisan-cli/vigil/config"
	"github.com/anisan-cli/vigil/key"
	"github.com/anisan-cli/vigil/playback"
	"github.com/anisan-cli/vigil/session"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("type", "t", "", "Media type: video, audio, live-video or live-audio (guessed from the URL when empty)")
	lo.Must0(playCmd.RegisterFlagCompletionFunc("type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{
			string(playback.MediaTypeVideo),
			string(playback.MediaTypeAudio),
			string(playback.MediaTypeLiveVideo),
			string(playback.MediaTypeLiveAudio),
		}, cobra.ShellCompDirectiveNoFileComp
	}))

	playCmd.Flags().StringP("mime", "m", "", "MIME type of the source (guessed from the URL when empty)")
	playCmd.Flags().Float64P("from", "f", 0, "Start playback at this position, in seconds")
	playCmd.Flags().BoolP("continue", "c", false, "Resume from the last remembered position")
	playCmd.Flags().BoolP("json", "j", false, "Print events as JSON lines")
	playCmd.Flags().StringSliceP("only", "o", []string{}, "Only print events whose type fuzzily matches one of these")
	lo.Must0(playCmd.RegisterFlagCompletionFunc("only", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(playback.EventTypes(), func(t playback.EventType, _ int) string {
			return string(t)
		}), cobra.ShellCompDirectiveNoFileComp
	}))
	playCmd.Flags().Bool("exit", false, "Exit once playback completes")

	playCmd.Flags().Float64("clamp-offset", 0, "Distance kept from the end of the seekable range, in seconds")
	lo.Must0(viper.BindPFlag(key.StreamingClampOffset, playCmd.Flags().Lookup("clamp-offset")))

	playCmd.Flags().BoolP("remember", "r", true, "Remember the playback position")
	lo.Must0(viper.BindPFlag(key.PlayerResume, playCmd.Flags().Lookup("remember")))
}

var playCmd = &cobra.Command{
	Use:   "play [url]",
	Short: "Play a media source with keyboard control",
	Long: `Play a media source through mpv while the sentinel monitor corrects stalls, lost seeks and ignored pauses.

Keys: space pause/resume, ←/→ seek 10s, r restart, s stop, q quit.`,
	Example: `  vigil play https://example.com/movie.mp4
  vigil play -c ~/Videos/lecture.mkv
  vigil play -t live-video --json https://example.com/live.m3u8`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		checkDependencies()

		url := args[0]

		mediaType, err := mediaTypeFlag(lo.Must(cmd.Flags().GetString("type")), url)
		handleErr(err)

		mimeType := lo.Must(cmd.Flags().GetString("mime"))
		if mimeType == "" {
			mimeType = guessMime(url, mediaType)
		}

		from := mo.None[float64]()
		if cmd.Flags().Changed("from") {
			from = mo.Some(lo.Must(cmd.Flags().GetFloat64("from")))
		}

		filter := session.NewFilter(lo.Must(cmd.Flags().GetStringSlice("only")))
		if len(filter.Matching()) == 0 {
			handleErr(errors.New("--only does not match any event, see vigil events list"))
		}

		printer := session.NewPrinter(cmd.OutOrStdout(), lo.Must(cmd.Flags().GetBool("json")), filter)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		handleErr(session.Run(ctx, session.Options{
			URL:               url,
			MimeType:          mimeType,
			MediaType:         mediaType,
			From:              from,
			Continue:          lo.Must(cmd.Flags().GetBool("continue")),
			Remember:          viper.GetBool(key.PlayerResume),
			Binary:            viper.GetString(key.PlayerBinary),
			SocketWaitRetries: viper.GetInt(key.PlayerSocketWaitRetries),
			SentinelInterval:  time.Duration(viper.GetInt(key.SentinelInterval)) * time.Millisecond,
			ClampOffset:       config.ClampOffset(),
			ExitOnComplete:    lo.Must(cmd.Flags().GetBool("exit")),
			Printer:           printer,
			Input:             os.Stdin,
		}))
	},
}

var liveExtensions = []string{".m3u8", ".mpd"}

var audioExtensions = []string{".mp3", ".aac", ".m4a", ".flac", ".ogg", ".opus", ".wav"}

func mediaTypeFlag(value, url string) (playback.MediaType, error) {
	if value != "" {
		t, ok := playback.ParseMediaType(value)
		if !ok {
			return "", fmt.Errorf("unknown media type %q", value)
		}
		return t, nil
	}

	if url == "" {
		return "", errors.New("url is required")
	}

	ext := strings.ToLower(path.Ext(strings.SplitN(url, "?", 2)[0]))
	switch {
	case lo.Contains(liveExtensions, ext):
		return playback.MediaTypeLiveVideo, nil
	case lo.Contains(audioExtensions, ext):
		return playback.MediaTypeAudio, nil
	default:
		return playback.MediaTypeVideo, nil
	}
}

func guessMime(url string, mediaType playback.MediaType) string {
	ext := strings.ToLower(path.Ext(strings.SplitN(url, "?", 2)[0]))
	switch ext {
	case ".m3u8":
		return "application/vnd.apple.mpegurl"
	case ".mpd":
		return "application/dash+xml"
	}

	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	if mediaType.IsAudio() {
		return "audio/mpeg"
	}
	return "video/mp4"
}
