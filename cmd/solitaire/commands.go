package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"solitaire-cipher/internal/cards"
	"solitaire-cipher/internal/cipher"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "solitaire",
		Short: "Encrypt and decrypt text with the Solitaire card cipher",
		Long: `Solitaire keys a stream cipher with the order of a 54 card deck.

Both parties need the same deck order:
  solitaire deck --order shuffled > key.deck
  solitaire encrypt --deck key.deck --text "Meet at dawn"
  solitaire decrypt --deck key.deck --text "..."`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newDeckCmd(), newCipherCmd(cipher.Encode), newCipherCmd(cipher.Decode), newKeystreamCmd())
	return root
}

func newDeckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deck",
		Short: "Print a key deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			order, _ := cmd.Flags().GetString("order")
			var d *cards.Deck
			switch order {
			case "shuffled":
				d = cards.NewShuffledDeck()
			case "ascending":
				d = cards.NewSortedDeck(true)
			case "descending":
				d = cards.NewSortedDeck(false)
			default:
				return fmt.Errorf("unknown order %q (shuffled, ascending, descending)", order)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), d.String())
			return err
		},
	}
	cmd.Flags().String("order", "shuffled", "Deck order (shuffled, ascending, descending)")
	return cmd
}

func newCipherCmd(dir cipher.Direction) *cobra.Command {
	name := "encrypt"
	short := "Encrypt text; input is reduced to letters and split into blocks of five"
	if dir == cipher.Decode {
		name = "decrypt"
		short = "Decrypt text produced by encrypt"
	}
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deck, err := deckFromFlags(cmd)
			if err != nil {
				return err
			}
			text, err := inputText(cmd)
			if err != nil {
				return err
			}

			s := cipher.New(deck)
			var out string
			if dir == cipher.Encode {
				out = s.Encrypt(text)
			} else {
				out, err = s.Decrypt(collapseSpace(text))
				if err != nil {
					return err
				}
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	addDeckFlags(cmd)
	cmd.Flags().StringP("text", "t", "", "Text to process (default: read stdin)")
	return cmd
}

func newKeystreamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keystream",
		Short: "Print the first N keystream values of a deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deck, err := deckFromFlags(cmd)
			if err != nil {
				return err
			}
			n, _ := cmd.Flags().GetInt("count")
			if n < 0 {
				return fmt.Errorf("count must not be negative")
			}
			vals := deck.Keystream(n)
			parts := make([]string, len(vals))
			for i, v := range vals {
				parts[i] = fmt.Sprint(v)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(parts, " "))
			return err
		},
	}
	addDeckFlags(cmd)
	cmd.Flags().IntP("count", "n", 10, "Number of values")
	return cmd
}

func addDeckFlags(cmd *cobra.Command) {
	cmd.Flags().String("deck", "", "File holding the key deck order")
	cmd.Flags().Bool("sorted", false, "Use the ascending sorted deck as the key")
	cmd.MarkFlagsMutuallyExclusive("deck", "sorted")
	cmd.MarkFlagsOneRequired("deck", "sorted")
}

func deckFromFlags(cmd *cobra.Command) (*cards.Deck, error) {
	if sorted, _ := cmd.Flags().GetBool("sorted"); sorted {
		return cards.NewSortedDeck(true), nil
	}
	path, _ := cmd.Flags().GetString("deck")
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}
	d, err := cards.ParseDeck(string(b))
	if err != nil {
		return nil, fmt.Errorf("deck %s: %w", path, err)
	}
	return d, nil
}

// collapseSpace joins the words of text with single spaces, so ciphertext
// wrapped over several lines decrypts as one message.
func collapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// inputText returns --text when set and stdin otherwise.
func inputText(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("text") {
		text, _ := cmd.Flags().GetString("text")
		return text, nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}
