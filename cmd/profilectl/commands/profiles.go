package commands

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/hisaab-profiles/internal/dto"
	"github.com/GregMSThompson/hisaab-profiles/internal/errs"
	"github.com/GregMSThompson/hisaab-profiles/internal/services"
)

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles := c.app.Profiles.Profiles()
			out := cmd.OutOrStdout()
			if c.asJSON {
				return c.printJSON(out, profiles)
			}

			keys := profiles.Keys()
			sort.Strings(keys)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tMOBILE\tBANK\tPHOTO\tUPDATED")
			for _, k := range keys {
				p := profiles[k]
				photo := "-"
				if p.PhotoData != "" {
					photo = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", k, p.Mobile, p.Bank, photo, p.LastUpdated)
			}
			return tw.Flush()
		},
	}
}

func (c *cli) getCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "get [name]",
		Short: "Print one profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if strict {
				p, ok := c.app.Profiles.Get(key)
				if !ok {
					return errs.NewNotFoundError(fmt.Sprintf("no profile named %q", key))
				}
				return c.printJSON(cmd.OutOrStdout(), p)
			}
			return c.printJSON(cmd.OutOrStdout(), c.app.Profiles.GetOrDefault(key))
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when the profile does not exist")
	return cmd
}

func (c *cli) saveCmd() *cobra.Command {
	var (
		req         dto.UpdateProfileRequest
		name        string
		mobile      string
		bank        string
		iban        string
		photoFile   string
		removePhoto bool
	)
	cmd := &cobra.Command{
		Use:   "save [name]",
		Short: "Create or edit a profile; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			flags := cmd.Flags()
			if flags.Changed("name") {
				req.Name = &name
			}
			if flags.Changed("mobile") {
				req.Mobile = &mobile
			}
			if flags.Changed("bank") {
				req.Bank = &bank
			}
			if flags.Changed("iban") {
				req.IBAN = &iban
			}

			ctx := cmd.Context()
			res, err := c.app.Editor.UpdateDetails(ctx, key, req)
			if err != nil {
				return err
			}

			switch {
			case photoFile != "":
				photo, err := readPhoto(photoFile)
				if err != nil {
					return err
				}
				if res, err = c.app.Editor.UploadPhoto(ctx, key, photo); err != nil {
					return err
				}
			case removePhoto:
				if res, err = c.app.Editor.RemovePhoto(ctx, key); err != nil {
					return err
				}
			}
			return c.printResult(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name (defaults to the key)")
	cmd.Flags().StringVar(&mobile, "mobile", "", "mobile number")
	cmd.Flags().StringVar(&bank, "bank", "", "comma separated banks")
	cmd.Flags().StringVar(&iban, "iban", "", "IBAN")
	cmd.Flags().StringVar(&photoFile, "photo-file", "", "image file to embed as the profile photo")
	cmd.Flags().BoolVar(&removePhoto, "remove-photo", false, "clear the profile photo")
	cmd.MarkFlagsMutuallyExclusive("photo-file", "remove-photo")
	return cmd
}

// readPhoto encodes an image file as a data URL.
func readPhoto(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	ct := http.DetectContentType(b)
	if !strings.HasPrefix(ct, "image/") {
		return "", errs.NewValidationError(fmt.Sprintf("%s is not an image (%s)", path, ct))
	}
	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}

func (c *cli) banksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "banks [name]",
		Short: "Print the banks of a profile, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			banks := c.app.Profiles.GetBankList(args[0])
			if c.asJSON {
				return c.printJSON(cmd.OutOrStdout(), banks)
			}
			for _, b := range banks {
				fmt.Fprintln(cmd.OutOrStdout(), b)
			}
			return nil
		},
	}
}

func (c *cli) colorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "color [name]",
		Short: "Print the badge color derived from a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), services.DeriveDisplayColor(args[0]))
			return nil
		},
	}
}
