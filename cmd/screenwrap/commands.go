package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/tomyan/screenwrap/wrap"
)

// Actions accepted by the act command.
const (
	ActionClick = "click"
	ActionFocus = "focus"
	ActionBlur  = "blur"
	ActionType  = "type"
)

// selector picks elements by test id or text.
type selector struct {
	testID string
	text   string
}

func (s *selector) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.testID, "testid", "", "Match elements by test id")
	cmd.Flags().StringVar(&s.text, "text", "", "Match elements by text")
	cmd.MarkFlagsOneRequired("testid", "text")
	cmd.MarkFlagsMutuallyExclusive("testid", "text")
}

func (s *selector) by() (string, string) {
	if s.testID != "" {
		return "testid", s.testID
	}
	return "text", s.text
}

func (s *selector) one(q wrap.Queries) (wrap.Element, error) {
	if s.testID != "" {
		return q.GetByTestID(s.testID)
	}
	return q.GetByText(s.text)
}

func (s *selector) all(q wrap.Queries) ([]wrap.Element, error) {
	if s.testID != "" {
		return q.GetAllByTestID(s.testID)
	}
	return q.GetAllByText(s.text)
}

func newSnapshotCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot FILE",
		Short: "Print the rendered fragment of an HTML fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := withObject(cfg, args[0], func(_ wrap.Engine, obj *wrap.Object) (interface{}, error) {
				html, err := obj.AsFragment()
				if err != nil {
					return nil, err
				}
				return SnapshotResult{File: args[0], HTML: html}, nil
			})
			if err != nil {
				return err
			}
			return outputResult(cfg, result)
		},
	}
}

func newDebugCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "debug FILE",
		Short: "Print an indented dump of the mounted document body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := withObject(cfg, args[0], func(_ wrap.Engine, obj *wrap.Object) (interface{}, error) {
				return nil, obj.Debug()
			})
			return err
		},
	}
}

func newQueryCmd(cfg *Config) *cobra.Command {
	var sel selector
	var all bool

	cmd := &cobra.Command{
		Use:   "query FILE (--testid ID | --text TEXT)",
		Short: "Print the elements matching a query",
		Long: `Print the element matching a test id or text query. Without --all the
query fails unless exactly one element matches.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := withObject(cfg, args[0], func(_ wrap.Engine, obj *wrap.Object) (interface{}, error) {
				var els []wrap.Element
				if all {
					found, err := sel.all(obj)
					if err != nil {
						return nil, err
					}
					els = found
				} else {
					el, err := sel.one(obj)
					if err != nil {
						return nil, err
					}
					els = []wrap.Element{el}
				}

				by, value := sel.by()
				r := QueryResult{By: by, Value: value, Count: len(els), Elements: make([]ElementResult, 0, len(els))}
				for _, el := range els {
					r.Elements = append(r.Elements, describe(el))
				}
				return r, nil
			})
			if err != nil {
				return err
			}
			return outputResult(cfg, result)
		},
	}
	sel.register(cmd)
	cmd.Flags().BoolVar(&all, "all", false, "Return every match")
	return cmd
}

func newActCmd(cfg *Config) *cobra.Command {
	var sel selector
	var value string

	cmd := &cobra.Command{
		Use:   "act FILE ACTION (--testid ID | --text TEXT)",
		Short: "Scope into one element, run an action and print the result",
		Long: `Scope into the element matching a query and run one of its actions:
click, focus, blur, or type (with --value). Prints the fragment afterwards.`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{ActionClick, ActionFocus, ActionBlur, ActionType},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := args[1]
			if !slices.Contains(cmd.ValidArgs, action) {
				return fmt.Errorf("unknown action: %s", action)
			}
			if action == ActionType && !cmd.Flags().Changed("value") {
				return fmt.Errorf("action %s requires --value", ActionType)
			}

			result, err := withObject(cfg, args[0], func(_ wrap.Engine, obj *wrap.Object) (interface{}, error) {
				el, err := sel.one(obj)
				if err != nil {
					return nil, err
				}
				scoped := obj.Within(el)
				if err := runAction(scoped, action, value); err != nil {
					return nil, err
				}

				html, err := obj.AsFragment()
				if err != nil {
					return nil, err
				}
				return ActResult{Action: action, Target: describe(el), HTML: html}, nil
			})
			if err != nil {
				return err
			}
			return outputResult(cfg, result)
		},
	}
	sel.register(cmd)
	cmd.Flags().StringVar(&value, "value", "", "Text for the type action")
	return cmd
}

func runAction(scoped *wrap.Object, action, value string) error {
	switch action {
	case ActionClick:
		return scoped.Click()
	case ActionFocus:
		return scoped.Focus()
	case ActionBlur:
		return scoped.Blur()
	case ActionType:
		return scoped.TypeText(value)
	}
	return fmt.Errorf("unknown action: %s", action)
}
