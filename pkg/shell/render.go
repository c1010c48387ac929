package shell

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/davidbrownell/v4-Common-LLVM/pkg/platform"
)

// Dialect is a shell script flavor
type Dialect string

const (
	DialectBash Dialect = "bash"
	DialectCmd  Dialect = "cmd"
)

// DefaultDialect returns the dialect activation scripts use on host
func DefaultDialect(host platform.Host) Dialect {
	if host.IsWindows() {
		return DialectCmd
	}
	return DialectBash
}

// ParseDialect validates a dialect name
func ParseDialect(s string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(s)); d {
	case DialectBash, DialectCmd:
		return d, nil
	default:
		return "", fmt.Errorf("unsupported shell dialect: %s", s)
	}
}

// Render converts cmds into a script for dialect, one statement per line.
func Render(dialect Dialect, cmds []Command) (string, error) {
	var b strings.Builder

	for _, cmd := range cmds {
		var (
			lines []string
			err   error
		)

		switch dialect {
		case DialectBash:
			lines, err = renderBash(cmd)
		case DialectCmd:
			lines, err = renderCmd(cmd)
		default:
			return "", fmt.Errorf("unsupported shell dialect: %s", dialect)
		}
		if err != nil {
			return "", err
		}

		for _, line := range lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return b.String(), nil
}

func renderBash(cmd Command) ([]string, error) {
	switch c := cmd.(type) {
	case AugmentPath:
		return []string{bashAugment("PATH", c.Values, c.AppendValues)}, nil
	case Augment:
		return []string{bashAugment(c.Name, c.Values, c.AppendValues)}, nil
	case Set:
		return []string{fmt.Sprintf(`export %s="%s"`, c.Name, strings.Join(c.Values, ":"))}, nil
	case SymbolicLink:
		target, err := linkTarget(c)
		if err != nil {
			return nil, err
		}
		var lines []string
		if c.RemoveExisting {
			lines = append(lines, fmt.Sprintf(`rm -rf "%s"`, c.Link))
		}
		return append(lines, fmt.Sprintf(`ln -s "%s" "%s"`, target, c.Link)), nil
	default:
		return nil, fmt.Errorf("unsupported command: %T", cmd)
	}
}

func bashAugment(name string, values []string, appendValues bool) string {
	joined := strings.Join(values, ":")
	if appendValues {
		return fmt.Sprintf(`export %s="${%s:+${%s}:}%s"`, name, name, name, joined)
	}
	return fmt.Sprintf(`export %s="%s${%s:+:${%s}}"`, name, joined, name, name)
}

func renderCmd(cmd Command) ([]string, error) {
	switch c := cmd.(type) {
	case AugmentPath:
		return []string{cmdAugment("PATH", c.Values, c.AppendValues)}, nil
	case Augment:
		return []string{cmdAugment(c.Name, c.Values, c.AppendValues)}, nil
	case Set:
		return []string{fmt.Sprintf(`set %s=%s`, c.Name, strings.Join(c.Values, ";"))}, nil
	case SymbolicLink:
		target, err := linkTarget(c)
		if err != nil {
			return nil, err
		}
		var lines []string
		if c.RemoveExisting {
			lines = append(lines, fmt.Sprintf(`if exist "%s" del /F /Q "%s"`, c.Link, c.Link))
		}
		flag := ""
		if c.IsDir {
			flag = "/D "
		}
		return append(lines, fmt.Sprintf(`mklink %s"%s" "%s" > NUL`, flag, c.Link, target)), nil
	default:
		return nil, fmt.Errorf("unsupported command: %T", cmd)
	}
}

func cmdAugment(name string, values []string, appendValues bool) string {
	joined := strings.Join(values, ";")
	if appendValues {
		return fmt.Sprintf(`set %s=%%%s%%;%s`, name, name, joined)
	}
	return fmt.Sprintf(`set %s=%s;%%%s%%`, name, joined, name)
}

// linkTarget returns the target as it should be stored in the link.
func linkTarget(c SymbolicLink) (string, error) {
	if !c.Relative {
		return c.Target, nil
	}
	rel, err := filepath.Rel(filepath.Dir(c.Link), c.Target)
	if err != nil {
		return "", fmt.Errorf("computing relative link target: %w", err)
	}
	return rel, nil
}
