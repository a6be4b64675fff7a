package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// InteractiveCalculator asks for an income and a municipality on a terminal
// and prints the resulting breakdown, repeating until the input ends or the
// user types "q"
type InteractiveCalculator struct {
	reader *bufio.Reader
	out    io.Writer
	store  *Store
}

// NewInteractiveCalculator creates a calculator reading answers from in
func NewInteractiveCalculator(store *Store, in io.Reader, out io.Writer) *InteractiveCalculator {
	return &InteractiveCalculator{
		reader: bufio.NewReader(in),
		out:    out,
		store:  store,
	}
}

// errQuit ends the session
var errQuit = errors.New("quit")

// parseMoney parses amounts like "85k", "1.5m", "CHF 85'000" or "85,000"
func parseMoney(input string) (float64, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	input = strings.TrimSpace(strings.TrimPrefix(input, "chf"))
	input = strings.NewReplacer("'", "", ",", "", "_", "", " ", "").Replace(input)

	multiplier := 1.0
	if strings.HasSuffix(input, "k") {
		multiplier = 1000
		input = strings.TrimSuffix(input, "k")
	} else if strings.HasSuffix(input, "m") {
		multiplier = 1000000
		input = strings.TrimSuffix(input, "m")
	}
	val, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", input)
	}
	amount := val * multiplier
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("invalid amount %q", input)
	}
	if amount < 0 {
		return 0, fmt.Errorf("amount cannot be negative")
	}
	return amount, nil
}

// readLine returns the trimmed next line; io.EOF once input is exhausted
func (ic *InteractiveCalculator) readLine() (string, error) {
	line, err := ic.reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && line == "" {
		return "", err
	}
	if strings.EqualFold(line, "q") {
		return "", errQuit
	}
	return line, nil
}

// promptMoney asks for an amount until it parses
func (ic *InteractiveCalculator) promptMoney(prompt string, defaultVal float64) (float64, error) {
	for {
		fmt.Fprintf(ic.out, "%s [%s]: ", prompt, FormatCHF(defaultVal))
		input, err := ic.readLine()
		if err != nil {
			return 0, err
		}
		if input == "" {
			return defaultVal, nil
		}
		amount, err := parseMoney(input)
		if err != nil {
			fmt.Fprintf(ic.out, "  ✗ %s. Enter as '85k', '1.5m', or '85000'\n", err)
			continue
		}
		return amount, nil
	}
}

// promptMunicipality accepts a number from the list or any name. Unknown
// names are taxed with the neutral multiplier.
func (ic *InteractiveCalculator) promptMunicipality(defaultVal string) (string, error) {
	names := ic.store.Municipalities()
	for i, name := range names {
		fmt.Fprintf(ic.out, "  %d) %s (%s)\n", i+1, name, FormatPercent(MunicipalMultiplier(name, ic.store.Tax.TaxRates)))
	}
	fmt.Fprintf(ic.out, "Municipality [%s]: ", defaultVal)
	input, err := ic.readLine()
	if err != nil {
		return "", err
	}
	if input == "" {
		return defaultVal, nil
	}
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(names) {
		return names[n-1], nil
	}
	return input, nil
}

// Run loops until the input ends or the user quits
func (ic *InteractiveCalculator) Run() error {
	fmt.Fprintln(ic.out, titleStyle.Render("Zurich Tax Calculator"))
	fmt.Fprintln(ic.out, "Type q to quit.")

	income, municipality := 85000.0, "Zurich City"
	for {
		fmt.Fprintln(ic.out)
		var err error
		income, err = ic.promptMoney("Annual income", income)
		if err == nil {
			municipality, err = ic.promptMunicipality(municipality)
		}
		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(ic.out)
		detail := ComputeTaxDetail(income, municipality, ic.store.Tax)
		PrintTaxDetail(ic.out, fmt.Sprintf("%s in %s", FormatCHF(income), municipality), detail)
	}
}
