package main

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/formery/formery"
	"github.com/formery/formery/internal/presentation/tui"
	"github.com/formery/formery/pkg/descriptor"
	"github.com/formery/formery/pkg/domain"
)

var runCmd = &cobra.Command{
	Use:   "run <code>",
	Short: "Run a notation interactively in the terminal",
	Long:  `Starts a flow instance and walks it question by question. Prompts are rendered from the same descriptors a UI would consume.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		kind := domain.KindClient
		if alignment, _ := cmd.Flags().GetBool("alignment"); alignment {
			kind = domain.KindAlignment
		}
		inst, err := eng.NewInstance(args[0], kind)
		if err != nil {
			return err
		}
		return runInteractive(eng, inst)
	},
}

func init() {
	runCmd.Flags().Bool("alignment", false, "run the alignment flow instead of the client flow")
	rootCmd.AddCommand(runCmd)
}

func runInteractive(eng *formery.Engine, inst *domain.FlowInstance) error {
	renderer := tui.NewRenderer()
	reader := bufio.NewReader(os.Stdin)

	if _, err := eng.Start(inst); err != nil {
		return err
	}

	for !inst.Completed {
		step, err := eng.Describe(inst)
		if err != nil {
			return err
		}
		fmt.Print(renderer.Step(step))

		answer, quit, err := readAnswer(reader, step)
		if err != nil {
			return err
		}
		if quit {
			fmt.Println("aborted")
			return nil
		}

		if _, err := eng.Submit(inst, answer); err != nil {
			var noMatch *domain.NoTransitionError
			if errors.As(err, &noMatch) {
				fmt.Println("That answer matches no branch of this question, try again.")
				continue
			}
			return err
		}
	}

	fmt.Printf("Flow complete, %d answers recorded.\n", len(inst.Answers))
	return nil
}

// readAnswer collects one answer shaped for the step's component.
func readAnswer(reader *bufio.Reader, step descriptor.StepDescriptor) (domain.Answer, bool, error) {
	switch step.Component.Kind {
	case descriptor.ComponentSecretField:
		fmt.Print("(hidden) > ")
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return nil, false, err
		}
		return domain.StringAnswer{Value: string(secret)}, false, nil

	case descriptor.ComponentRadio, descriptor.ComponentPicker:
		line, quit, err := readLine(reader)
		if err != nil || quit {
			return nil, quit, err
		}
		return domain.ChoiceAnswer{Value: resolveChoice(line, step.Component.Choices)}, false, nil

	case descriptor.ComponentMultiPicker:
		line, quit, err := readLine(reader)
		if err != nil || quit {
			return nil, quit, err
		}
		parts := strings.Split(line, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			values = append(values, resolveChoice(strings.TrimSpace(p), step.Component.Choices))
		}
		return domain.MultiChoiceAnswer{Values: values}, false, nil

	case descriptor.ComponentSignaturePad, descriptor.ComponentNotarizationPrompt,
		descriptor.ComponentDocumentReview, descriptor.ComponentIssuancePrompt,
		descriptor.ComponentFileUpload:
		fmt.Print("(confirm with Enter) > ")
		line, quit, err := readLine(reader)
		if err != nil || quit {
			return nil, quit, err
		}
		sum := sha256.Sum256([]byte(step.Code + ":" + line))
		return domain.PayloadAnswer{Hash: domain.DataHash{
			Algorithm: "sha256",
			Value:     hex.EncodeToString(sum[:]),
		}}, false, nil

	default:
		line, quit, err := readLine(reader)
		if err != nil || quit {
			return nil, quit, err
		}
		return domain.StringAnswer{Value: line}, false, nil
	}
}

func readLine(reader *bufio.Reader) (string, bool, error) {
	fmt.Print("> ")
	text, err := reader.ReadString('\n')
	if err != nil {
		return "", false, err
	}
	line := strings.TrimSpace(text)
	if line == "quit" || line == "exit" {
		return "", true, nil
	}
	return line, false, nil
}

// resolveChoice accepts either a 1-based index into the presented
// choices or a literal choice value.
func resolveChoice(input string, choices []domain.Choice) string {
	if idx, err := strconv.Atoi(input); err == nil && idx >= 1 && idx <= len(choices) {
		return choices[idx-1].Value
	}
	return input
}
