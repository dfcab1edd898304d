package registry

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/gogpu/glgen/internal/logger"
	"github.com/gogpu/glgen/naming"
	"github.com/gogpu/glgen/xmltree"
)

// Options configures Build.
type Options struct {
	// Keywords is the reserved-word table of the target emitter. Parameter
	// names it reserves are renamed. Nil disables renaming.
	Keywords naming.Keywords

	// SkipEnumGroups lists <enums> groups to ignore, matched against the
	// namespace, group and vendor attributes. Groups holding negative
	// literals are skipped regardless.
	SkipEnumGroups []string

	// Logger receives debug output. Defaults to the "registry" component
	// of the process logger.
	Logger *slog.Logger
}

// Known children of <require> and <remove>. Only enum, command and type
// carry symbols.
var deltaChildTags = map[string]bool{
	"enum":     true,
	"command":  true,
	"type":     true,
	"alias":    true,
	"glx":      true,
	"vecequiv": true,
}

type builder struct {
	reg  *Registry
	opts Options
	log  *slog.Logger
}

// Build reads a registry document tree. Every structural problem is fatal;
// no partial registry is returned. After reading, every symbol named by a
// require or remove block is checked to exist.
func Build(root *xmltree.Node, opts Options) (*Registry, error) {
	if root == nil {
		return nil, NewError(ErrMissingAttribute, "empty document")
	}
	if root.Tag != "registry" {
		return nil, newErrorAt(ErrUnexpectedTag, root.Offset, "document element is <%s>, want <registry>", root.Tag)
	}

	b := &builder{
		reg:  newRegistry(),
		opts: opts,
		log:  opts.Logger,
	}
	if b.log == nil {
		b.log = logger.ForComponent("registry")
	}

	for _, el := range root.Elements() {
		var err error
		switch el.Tag {
		case "types":
			err = b.readTypes(el)
		case "enums":
			err = b.readEnums(el)
		case "commands":
			err = b.readCommands(el)
		case "feature":
			err = b.readFeature(el)
		case "extensions":
			err = b.readExtensions(el)
		default:
			// comment, kinds, groups: nothing the bindings need
			b.log.Debug("skipping registry section", "tag", el.Tag)
		}
		if err != nil {
			return nil, err
		}
	}

	if errs := Validate(b.reg); errs.HasErrors() {
		return nil, errs
	}

	b.log.Debug("registry built",
		"types", len(b.reg.Types),
		"enums", len(b.reg.Enums),
		"commands", len(b.reg.Commands),
		"features", len(b.reg.Features),
		"extensions", len(b.reg.Extensions),
		"skipped_groups", len(b.reg.SkippedGroups))
	return b.reg, nil
}

func requireAttr(n *xmltree.Node, name string) (string, error) {
	v, ok := n.Attr(name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", newErrorAt(ErrMissingAttribute, n.Offset, "<%s> requires attribute %q", n.Tag, name)
	}
	return strings.TrimSpace(v), nil
}

func (b *builder) readTypes(el *xmltree.Node) error {
	for _, t := range el.Elements() {
		if t.Tag != "type" {
			continue
		}
		name := t.AttrOr("name", "")
		if name == "" {
			if n := t.Child("name"); n != nil {
				name = strings.TrimSpace(n.InnerText())
			}
		}
		if name == "" {
			return newErrorAt(ErrMissingAttribute, t.Offset, "<type> has neither a name attribute nor a <name> child")
		}
		b.reg.addType(TypeDef{
			Name:     name,
			API:      t.AttrOr("api", ""),
			Requires: t.AttrOr("requires", ""),
		})
	}
	return nil
}

// groupLabel identifies an <enums> group for logs and SkippedGroups.
func groupLabel(el *xmltree.Node) string {
	var parts []string
	for _, attr := range []string{"namespace", "group", "vendor"} {
		if v := el.AttrOr(attr, ""); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return "<anonymous>"
	}
	return strings.Join(parts, "/")
}

func (b *builder) skipGroup(el *xmltree.Node) (bool, string) {
	for _, attr := range []string{"namespace", "group", "vendor"} {
		if v := el.AttrOr(attr, ""); v != "" && slices.Contains(b.opts.SkipEnumGroups, v) {
			return true, "configured"
		}
	}
	for _, e := range el.ChildrenByTag("enum") {
		if strings.HasPrefix(strings.TrimSpace(e.AttrOr("value", "")), "-") {
			return true, "negative values"
		}
	}
	return false, ""
}

func (b *builder) readEnums(el *xmltree.Node) error {
	if skip, reason := b.skipGroup(el); skip {
		label := groupLabel(el)
		b.reg.SkippedGroups = append(b.reg.SkippedGroups, label)
		b.log.Debug("skipping enum group", "group", label, "reason", reason)
		return nil
	}

	bitmask := el.AttrOr("type", "") == "bitmask"
	group := el.AttrOr("group", "")

	for _, e := range el.Elements() {
		switch e.Tag {
		case "enum":
		case "unused":
			continue
		default:
			return newErrorAt(ErrUnexpectedTag, e.Offset, "unexpected <%s> in <enums>", e.Tag)
		}

		name, err := requireAttr(e, "name")
		if err != nil {
			return err
		}
		value, err := requireAttr(e, "value")
		if err != nil {
			return err
		}
		b.reg.addEnum(EnumDef{
			Name:    name,
			Value:   value,
			Bitmask: bitmask,
			API:     e.AttrOr("api", ""),
			Alias:   e.AttrOr("alias", ""),
			Group:   e.AttrOr("group", group),
		})
	}
	return nil
}

func (b *builder) readCommands(el *xmltree.Node) error {
	for _, c := range el.Elements() {
		if c.Tag != "command" {
			return newErrorAt(ErrUnexpectedTag, c.Offset, "unexpected <%s> in <commands>", c.Tag)
		}
		cmd, err := b.readCommand(c)
		if err != nil {
			return err
		}
		if err := b.reg.addCommand(cmd, c.Offset); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) readCommand(el *xmltree.Node) (CommandDef, error) {
	var (
		cmd      CommandDef
		hasProto bool
	)

	for _, c := range el.Elements() {
		switch c.Tag {
		case "proto":
			ret, name, err := parseDecl(c)
			if err != nil {
				return CommandDef{}, err
			}
			cmd.Name = name
			cmd.Return = ret
			hasProto = true

		case "param":
			typ, raw, err := parseDecl(c)
			if err != nil {
				return CommandDef{}, err
			}
			cmd.Params = append(cmd.Params, Param{
				Name:    naming.Rename(raw, b.opts.Keywords),
				RawName: raw,
				Type:    typ,
				Group:   c.AttrOr("group", ""),
				Len:     c.AttrOr("len", ""),
			})

		case "alias":
			alias, err := requireAttr(c, "name")
			if err != nil {
				return CommandDef{}, err
			}
			cmd.Alias = alias

		case "glx", "vecequiv":
			// GLX protocol details and vector equivalents are not bound.

		default:
			return CommandDef{}, newErrorAt(ErrUnexpectedTag, c.Offset, "unexpected <%s> in <command>", c.Tag)
		}
	}

	if !hasProto {
		return CommandDef{}, newErrorAt(ErrMissingAttribute, el.Offset, "<command> has no <proto>")
	}
	return cmd, nil
}

func (b *builder) readFeature(el *xmltree.Node) error {
	api, err := requireAttr(el, "api")
	if err != nil {
		return err
	}
	number, err := requireAttr(el, "number")
	if err != nil {
		return err
	}
	version, err := ParseVersion(number)
	if err != nil {
		return newErrorAt(ErrInvalidVersion, el.Offset, "feature %s: %v", el.AttrOr("name", number), err)
	}

	feature := FeatureBlock{
		Name:    el.AttrOr("name", ""),
		API:     api,
		Version: version,
	}

	for _, c := range el.Elements() {
		switch c.Tag {
		case "require":
			block, err := readDelta(c, BlockRequire)
			if err != nil {
				return err
			}
			feature.Requires = append(feature.Requires, block)
		case "remove":
			block, err := readDelta(c, BlockRemove)
			if err != nil {
				return err
			}
			feature.Removes = append(feature.Removes, block)
		default:
			return newErrorAt(ErrUnexpectedTag, c.Offset, "unexpected <%s> in feature %s", c.Tag, feature.Name)
		}
	}

	b.reg.Features = append(b.reg.Features, feature)
	return nil
}

func readDelta(el *xmltree.Node, kind BlockKind) (DeltaBlock, error) {
	block := DeltaBlock{
		Kind:    kind,
		API:     el.AttrOr("api", ""),
		Profile: el.AttrOr("profile", ""),
		Comment: el.AttrOr("comment", ""),
		offset:  el.Offset,
	}

	for _, c := range el.Elements() {
		if !deltaChildTags[c.Tag] {
			return DeltaBlock{}, newErrorAt(ErrUnexpectedTag, c.Offset, "unexpected <%s> in <%s>", c.Tag, kind)
		}
		switch c.Tag {
		case "enum", "command", "type":
			name, err := requireAttr(c, "name")
			if err != nil {
				return DeltaBlock{}, err
			}
			switch c.Tag {
			case "enum":
				block.Enums = append(block.Enums, name)
			case "command":
				block.Commands = append(block.Commands, name)
			default:
				block.Types = append(block.Types, name)
			}
		}
	}
	return block, nil
}

func (b *builder) readExtensions(el *xmltree.Node) error {
	for _, x := range el.Elements() {
		if x.Tag != "extension" {
			return newErrorAt(ErrUnexpectedTag, x.Offset, "unexpected <%s> in <extensions>", x.Tag)
		}
		name, err := requireAttr(x, "name")
		if err != nil {
			return err
		}
		ext := Extension{Name: name}
		if supported := x.AttrOr("supported", ""); supported != "" {
			ext.Supported = strings.Split(supported, "|")
		}

		for _, c := range x.Elements() {
			if c.Tag != "require" {
				return newErrorAt(ErrUnexpectedTag, c.Offset, "unexpected <%s> in extension %s", c.Tag, name)
			}
			block, err := readDelta(c, BlockRequire)
			if err != nil {
				return err
			}
			ext.Requires = append(ext.Requires, block)
		}
		b.reg.Extensions = append(b.reg.Extensions, ext)
	}
	return nil
}
