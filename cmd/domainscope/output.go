package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/benithors/domainscope/internal/domain"
	"github.com/benithors/domainscope/internal/suggest"
)

type outputFormat int

const (
	formatTable outputFormat = iota
	formatNDJSON
	formatJSON
	formatPlain
)

func resolveFormat(flagVal string, stdout *os.File) outputFormat {
	switch strings.ToLower(strings.TrimSpace(flagVal)) {
	case "table":
		return formatTable
	case "ndjson":
		return formatNDJSON
	case "json":
		return formatJSON
	case "plain":
		return formatPlain
	case "auto", "":
	default:
		// Unknown format: fall back to auto.
	}

	if term.IsTerminal(int(stdout.Fd())) {
		return formatTable
	}
	return formatNDJSON
}

func writeRows(w io.Writer, format outputFormat, rows []reportRow) error {
	switch format {
	case formatNDJSON:
		enc := json.NewEncoder(w)
		for _, r := range rows {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	case formatJSON:
		return json.NewEncoder(w).Encode(rows)
	case formatPlain:
		for _, r := range rows {
			// Stable, line-oriented output for piping.
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Domain, availabilityWord(r), r.Registrar, r.ExpiresAt); err != nil {
				return err
			}
		}
		return nil
	case formatTable:
		fallthrough
	default:
		showPrice := false
		for _, r := range rows {
			if r.PriceUSD != 0 {
				showPrice = true
				break
			}
		}

		tw := domain.NewTabWriter(w)
		if showPrice {
			fmt.Fprintln(tw, "DOMAIN\tSTATUS\tREGISTRAR\tEXPIRES\tPRICE\tDETAIL")
		} else {
			fmt.Fprintln(tw, "DOMAIN\tSTATUS\tREGISTRAR\tEXPIRES\tDETAIL")
		}
		for _, r := range rows {
			detail := r.StatusRaw
			if r.Error != "" {
				detail = r.Error
			}
			if showPrice {
				priceStr := ""
				if r.PriceUSD != 0 {
					priceStr = fmt.Sprintf("$%.2f", r.PriceUSD)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					r.Domain, availabilityWord(r), r.Registrar, r.ExpiresAt, priceStr, detail)
			} else {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					r.Domain, availabilityWord(r), r.Registrar, r.ExpiresAt, detail)
			}
		}
		return tw.Flush()
	}
}

func availabilityWord(r reportRow) string {
	switch {
	case r.Error != "":
		return "ERROR"
	case r.Available:
		return "AVAILABLE"
	default:
		return "TAKEN"
	}
}

func writeSuggestions(w io.Writer, format outputFormat, suggestions []suggest.Suggestion) error {
	switch format {
	case formatNDJSON:
		enc := json.NewEncoder(w)
		for _, s := range suggestions {
			if err := enc.Encode(s); err != nil {
				return err
			}
		}
		return nil
	case formatJSON:
		return json.NewEncoder(w).Encode(suggestions)
	case formatPlain:
		for _, s := range suggestions {
			if _, err := fmt.Fprintf(w, "%s\t%t\n", s.Domain, s.Available); err != nil {
				return err
			}
		}
		return nil
	case formatTable:
		fallthrough
	default:
		tw := domain.NewTabWriter(w)
		fmt.Fprintln(tw, "DOMAIN\tAVAILABLE")
		for _, s := range suggestions {
			avail := "no"
			if s.Available {
				avail = "yes"
			}
			fmt.Fprintf(tw, "%s\t%s\n", s.Domain, avail)
		}
		return tw.Flush()
	}
}
