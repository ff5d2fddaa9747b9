package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var digestCmd = &cobra.Command{
	Use:   "digest <to-address>",
	Short: "Emails the pending batch for review on the go",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDigest(args[0]); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(digestCmd)

	digestCmd.Flags().String("from", "", "From email address")
	viper.BindPFlag("from", digestCmd.Flags().Lookup("from"))

	digestCmd.Flags().String("sendgrid_api_key", "", "SendGrid API key")
	viper.BindPFlag("sendgrid_api_key", digestCmd.Flags().Lookup("sendgrid_api_key"))
}

func runDigest(toAddress string) error {
	fromAddress := viper.GetString("from")
	apiKey := viper.GetString("sendgrid_api_key")
	if fromAddress == "" || apiKey == "" {
		return errors.New("digest requires from and sendgrid_api_key to be configured")
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	pending, err := s.Pending()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return errors.New("no pending batch to send; run discover first")
	}

	var body strings.Builder
	fmt.Fprintf(&body, "%d candidates waiting for a listen:\n\n", len(pending))
	for i, t := range pending {
		fmt.Fprintf(&body, "%3d. %s", i+1, t.Display())
		if t.Album != "" {
			fmt.Fprintf(&body, " (%s", t.Album)
			if t.Year > 0 {
				fmt.Fprintf(&body, ", %d", t.Year)
			}
			fmt.Fprint(&body, ")")
		}
		fmt.Fprintln(&body)
	}

	from := mail.NewEmail("attune", fromAddress)
	to := mail.NewEmail(toAddress, toAddress)
	subject := fmt.Sprintf("attune: %d candidates pending", len(pending))
	message := mail.NewSingleEmail(from, subject, to, body.String(), body.String())

	client := sendgrid.NewSendClient(apiKey)
	if _, err := client.Send(message); err != nil {
		return fmt.Errorf("sending digest: %w", err)
	}

	fmt.Printf("Sent digest of %d tracks to %s\n", len(pending), toAddress)
	return nil
}
