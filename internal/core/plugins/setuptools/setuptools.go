// Package setuptools converts declarative setup.cfg metadata into a PEP
// 621 [project] table, moving everything without a PEP 621 equivalent
// under [tool.setuptools].
//
// https://setuptools.pypa.io/en/latest/userguide/declarative_config.html
package setuptools

import (
	"strings"

	"github.com/cfgtools/initoml/internal/core/document"
	"github.com/cfgtools/initoml/internal/core/transform"
	"github.com/cfgtools/initoml/internal/core/translate"
)

// ProfileName is the profile the plugin attaches to.
const ProfileName = "setup.cfg"

const tomlTemplate = `[build-system]
requires = ["setuptools", "wheel"]
build-backend = "setuptools.build_meta"

[project]
`

var commandSections = []string{
	"alias", "bdist", "sdist", "build", "install", "develop", "dist_info", "dist-info", "egg_info", "egg-info",
}

var setuptoolsSections = append([]string{"metadata", "options"}, commandSections...)

// Value splitters mirroring the declarative config value syntax.
var (
	splitListComma  = transform.SplitListFn(transform.ListOptions{Sep: ",", NoSubsplit: true})
	splitListSemi   = transform.SplitListFn(transform.ListOptions{Sep: ";", NoSubsplit: true})
	splitBool       = transform.SplitBoolFn()
	splitKVPairs    = transform.SplitKVFn(transform.KVOptions{})
	splitKVNoCmts   = transform.SplitKVFn(transform.KVOptions{NoComments: true})
	splitDirective  = transform.SplitKVFn(transform.KVOptions{KeySep: ":"})
	splitHashOnly   = transform.SplitCommentFn(transform.CommentOptions{Prefixes: "#"})
	splitAnyComment = transform.SplitCommentFn(transform.CommentOptions{})
)

// Activate registers the setup.cfg profile. The processors are inserted
// in front so the PEP 621 restructuring runs before the tool-specific
// plugins sharing the profile.
func Activate(t *translate.Translator) {
	profile := t.Profile(ProfileName)
	profile.HelpText = "convert settings to 'pyproject.toml' based on PEP 621"
	profile.InsertINIProcessor(normaliseKeys)
	profile.InsertTOMLProcessor(pep621Transform)
	profile.TOMLTemplate = tomlTemplate
}

// setupcfgAliases maps deprecated metadata option names to their
// canonical spelling.
var setupcfgAliases = [][2]string{
	{"classifier", "classifiers"},
	{"summary", "description"},
	{"platform", "platforms"},
	{"license-file", "license-files"},
	{"home-page", "url"},
}

// normaliseKeys rewrites section and option names to the kebab case
// convention pyproject.toml uses, and resolves metadata aliases.
func normaliseKeys(doc *document.Table) *document.Table {
	for _, name := range doc.Keys() {
		if !hasAnyPrefix(name, setuptoolsSections) {
			continue
		}
		section := doc.GetTable(name)
		doc.Rename(name, transform.KebabCase(name))
		if section == nil {
			continue
		}
		for _, key := range section.Keys() {
			section.Rename(key, transform.KebabCase(key))
		}
	}
	metadata := doc.GetTable("metadata")
	if metadata == nil {
		return doc
	}
	for _, alias := range setupcfgAliases {
		if metadata.Has(alias[0]) && !metadata.Has(alias[1]) {
			metadata.Rename(alias[0], alias[1])
		}
	}
	return doc
}

func pep621Transform(orig, doc *document.Table) *document.Table {
	steps := []func(orig, doc *document.Table) *document.Table{
		convertDirectives,
		separateSubtables,
		applyValueProcessing,
		pep621Renaming,
		fixLicense,
		fixDynamic,
		fixPackages,
		fixSetupRequires,
		ensurePEP518,
		cleanup,
	}
	for _, step := range steps {
		doc = step(orig, doc)
	}
	return doc
}

// setupcfgDirectives lists the options that accept `directive: argument`
// values instead of plain data.
var setupcfgDirectives = []struct {
	section, option string
	directives      []string
}{
	{"metadata", "version", []string{"file", "attr"}},
	{"metadata", "classifiers", []string{"file"}},
	{"metadata", "description", []string{"file"}},
	{"metadata", "long-description", []string{"file"}},
	{"options", "entry-points", []string{"file"}},
	{"options", "packages", []string{"find", "find_namespace", "find-namespace"}},
}

func convertDirectives(_, doc *document.Table) *document.Table {
	for _, d := range setupcfgDirectives {
		section := doc.GetTable(d.section)
		if section == nil {
			continue
		}
		value, ok := section.Get(d.option)
		if !ok {
			continue
		}
		raw, isString := value.(string)
		if !isString {
			continue
		}
		for _, directive := range d.directives {
			if strings.HasPrefix(strings.TrimSpace(raw), directive+":") {
				transform.Apply(section, d.option, splitDirective)
				break
			}
		}
	}
	return doc
}

// separateSubtables materialises the nesting setuptools emulates with
// dotted section names (e.g. [options.extras-require]).
func separateSubtables(_, doc *document.Table) *document.Table {
	for _, name := range doc.Keys() {
		if !strings.HasPrefix(name, "options.") {
			continue
		}
		value, _ := doc.Pop(name)
		path := strings.Split(name, ".")
		setNestedOverDirective(doc, value, path)
	}
	return doc
}

// setNestedOverDirective is SetNested, except that a directive value in
// the path (e.g. `packages = find:` plus an [options.packages.find]
// section) is folded into a table so both pieces of data survive.
func setNestedOverDirective(doc *document.Table, value any, path []string) {
	current := doc
	for _, key := range path[:len(path)-1] {
		existing, _ := current.Get(key)
		if kv, isKV := existing.(transform.CommentedKV); isKV {
			folded := document.NewTable()
			for _, pair := range kv.Pairs() {
				folded.Set(pair.Key, pair.Value)
			}
			current.Set(key, folded)
			current = folded
			continue
		}
		if raw, isString := existing.(string); isString {
			folded := document.NewTable()
			if name := strings.TrimSuffix(strings.TrimSpace(raw), ":"); name != "" {
				folded.Set(name, "")
			}
			current.Set(key, folded)
			current = folded
			continue
		}
		current = document.SetDefaultTable(current, key)
	}
	current.Set(path[len(path)-1], value)
}

type rule struct {
	path []string
	fn   transform.Transformation
}

// processingRules maps option paths to the splitter for their declared
// value type.
func processingRules() []rule {
	return []rule{
		{[]string{"metadata", "classifiers"}, splitListComma},
		{[]string{"metadata", "keywords"}, splitListComma},
		{[]string{"metadata", "project-urls"}, splitKVNoCmts},
		{[]string{"metadata", "provides"}, splitListComma},
		{[]string{"metadata", "requires"}, splitListComma},
		{[]string{"metadata", "obsoletes"}, splitListComma},
		{[]string{"metadata", "long-description-content-type"}, splitHashOnly},
		{[]string{"options", "zip-safe"}, splitBool},
		{[]string{"options", "setup-requires"}, splitListSemi},
		{[]string{"options", "install-requires"}, splitListSemi},
		{[]string{"options", "tests-require"}, splitListSemi},
		{[]string{"options", "scripts"}, splitListComma},
		{[]string{"options", "eager-resources"}, splitListComma},
		{[]string{"options", "dependency-links"}, splitListComma},
		{[]string{"options", "include-package-data"}, splitBool},
		{[]string{"options", "packages"}, splitListComma},
		{[]string{"options", "package-dir"}, splitKVPairs},
		{[]string{"options", "namespace-packages"}, splitListComma},
		{[]string{"options", "py-modules"}, splitListComma},
		{[]string{"options", "data-files"}, splitKVPairs},
		{[]string{"options", "packages", "find", "exclude"}, splitListComma},
		{[]string{"options", "packages", "find", "include"}, splitListComma},
		{[]string{"options", "packages", "find-namespace", "exclude"}, splitListComma},
		{[]string{"options", "packages", "find-namespace", "include"}, splitListComma},
	}
}

// dynamicProcessingRules covers options whose keys are user defined:
// every entry-points group is a kv list and every extra a comma list.
func dynamicProcessingRules(doc *document.Table) []rule {
	var rules []rule
	if ep := document.GetNestedTable(doc, "options", "entry-points"); ep != nil {
		for _, group := range ep.Keys() {
			rules = append(rules, rule{[]string{"options", "entry-points", group}, splitKVPairs})
		}
	}
	if extras := document.GetNestedTable(doc, "options", "extras-require"); extras != nil {
		for _, extra := range extras.Keys() {
			rules = append(rules, rule{[]string{"options", "extras-require", extra}, splitListComma})
		}
	}
	return rules
}

func applyValueProcessing(_, doc *document.Table) *document.Table {
	applied := map[string]bool{}
	apply := func(r rule) {
		key := strings.Join(r.path, "\x00")
		if applied[key] {
			return
		}
		applied[key] = true
		transform.ApplyNested(doc, r.path, r.fn)
	}
	for _, r := range dynamicProcessingRules(doc) {
		apply(r)
	}
	for _, r := range processingRules() {
		apply(r)
	}
	// Everything else just gets its inline comment split off.
	for _, section := range []string{"metadata", "options"} {
		sec := doc.GetTable(section)
		if sec == nil {
			continue
		}
		for _, option := range sec.Keys() {
			apply(rule{[]string{section, option}, splitAnyComment})
		}
	}
	return doc
}

// pep621Renaming moves everything with a clear PEP 621 correspondence
// into the [project] table and the setuptools leftovers under
// [tool.setuptools].
func pep621Renaming(_, doc *document.Table) *document.Table {
	metadata := popTable(doc, "metadata")

	// url => urls.Homepage, download-url => urls.Download,
	// project-urls => urls
	urls := document.NewTable()
	if v, ok := metadata.Pop("project-urls"); ok {
		if kv, isKV := v.(transform.CommentedKV); isKV {
			for _, pair := range kv.Pairs() {
				urls.Set(pair.Key, pair.Value)
			}
		}
	}
	for _, rename := range [][2]string{{"url", "Homepage"}, {"download-url", "Download"}} {
		if v, ok := metadata.Pop(rename[0]); ok {
			urls.Set(rename[1], v)
		}
	}

	// author/author-email => authors, maintainer/... => maintainers
	for _, key := range []string{"author", "maintainer"} {
		nameValue, _ := metadata.Pop(key)
		emailValue, _ := metadata.Pop(key + "-email")
		people := combinePeople(asString(nameValue), asString(emailValue))
		if len(people) > 0 {
			metadata.Set(key+"s", people)
		}
	}

	// long-description(+content-type) => readme
	readme := readmeValue(metadata)

	// license/license-files => license table
	license := &document.Table{Inline: true}
	for _, rename := range [][2]string{{"license-files", "file"}, {"license", "text"}} {
		if v, ok := metadata.Pop(rename[0]); ok {
			license.Set(rename[1], v)
		}
	}

	if readme != nil {
		metadata.Set("readme", readme)
	}
	if license.Len() > 0 {
		metadata.Set("license", license)
	}
	if urls.Len() > 0 {
		metadata.Set("urls", urls)
	}

	// Options covered by PEP 621.
	options := popTable(doc, "options")
	renames := [][2]string{
		{"python-requires", "requires-python"},
		{"install-requires", "dependencies"},
		{"extras-require", "optional-dependencies"},
		{"entry-points", "entry-points"},
	}
	for _, rename := range renames {
		if v, ok := options.Pop(rename[0]); ok {
			metadata.Set(rename[1], v)
		}
	}
	if ep := metadata.GetTable("entry-points"); ep != nil {
		if v, ok := ep.Pop("console-scripts"); ok {
			metadata.Set("scripts", v)
		}
		if v, ok := ep.Pop("gui-scripts"); ok {
			metadata.Set("gui-scripts", v)
		}
		if len(ep.Keys()) == 0 {
			metadata.Pop("entry-points")
		}
	}

	// setuptools metadata without a PEP 621 equivalent.
	for _, key := range []string{"platforms", "provides", "obsoletes"} {
		if v, ok := metadata.Pop(key); ok {
			options.Set(key, v)
		}
	}

	// distutils/setuptools command sections live outside [options].
	for _, name := range doc.Keys() {
		if name == "build-system" || !hasAnyPrefix(name, commandSections) {
			continue
		}
		v, _ := doc.Pop(name)
		options.Set(name, v)
	}

	if metadata.Len() > 0 {
		doc.Set("project", metadata)
	}
	if options.Len() > 0 {
		document.SetNested(doc, options, "tool", "setuptools")
	}
	return doc
}

func readmeValue(metadata *document.Table) any {
	readme := &document.Table{Inline: true}
	if ld, ok := metadata.Get("long-description"); ok {
		if kv, isKV := ld.(transform.CommentedKV); isKV {
			if file, found := kv.Find("file"); found {
				readme.Set("file", file)
				metadata.Pop("long-description")
			}
		} else {
			readme.Set("text", ld)
			metadata.Pop("long-description")
		}
	}
	if ct, ok := metadata.Pop("long-description-content-type"); ok {
		readme.Set("content-type", ct)
	}
	switch {
	case readme.Len() == 0:
		return nil
	case readme.Len() == 1 && readme.Has("file"):
		v, _ := readme.Get("file")
		return v
	}
	return readme
}

// combinePeople zips comma separated name and email lists into PEP 621
// author tables.
func combinePeople(names, emails string) []any {
	nameList := strings.Split(names, ",")
	emailList := strings.Split(emails, ",")
	var people []any
	for i, name := range nameList {
		name = strings.TrimSpace(name)
		email := ""
		if i < len(emailList) {
			email = strings.TrimSpace(emailList[i])
		}
		if name == "" && email == "" {
			continue
		}
		person := &document.Table{Inline: true}
		if name != "" {
			person.Set("name", name)
		}
		if email != "" {
			person.Set("email", email)
		}
		people = append(people, person)
	}
	return people
}

// fixLicense drops the text form when a license file is given, the two
// fields are mutually exclusive.
func fixLicense(_, doc *document.Table) *document.Table {
	if license := document.GetNestedTable(doc, "project", "license"); license != nil {
		if license.Has("file") {
			license.Pop("text")
		}
	}
	return doc
}

// fixDynamic moves directive-valued project fields into
// project.dynamic + [tool.setuptools.dynamic].
func fixDynamic(orig, doc *document.Table) *document.Table {
	project := document.SetDefaultTable(doc, "project")
	var fields []string
	for _, field := range []string{"version", "classifiers", "description"} {
		if v, ok := project.Get(field); ok && isDirective(v) {
			fields = append(fields, field)
		}
	}
	var extras []string
	if options := orig.GetTable("options"); options != nil {
		if strings.HasPrefix(strings.TrimSpace(options.GetString("entry-points")), "file:") {
			fields = append(fields, "entry-points")
			extras = []string{"scripts", "gui-scripts"}
		}
	}
	if len(fields) == 0 {
		return doc
	}

	dynamic, _ := project.Get("dynamic")
	names, _ := dynamic.([]any)
	for _, f := range append(fields, extras...) {
		names = append(names, f)
	}
	project.Set("dynamic", names)

	target := document.SetDefaultTable(doc, "tool", "setuptools", "dynamic")
	for _, f := range fields {
		if v, ok := project.Pop(f); ok {
			target.Set(f, v)
		}
	}
	return doc
}

// isDirective recognises converted `file:`/`attr:` directive values.
func isDirective(v any) bool {
	switch value := v.(type) {
	case transform.CommentedKV:
		pairs := value.Pairs()
		return len(pairs) == 1 && (pairs[0].Key == "file" || pairs[0].Key == "attr")
	case *document.Table:
		keys := value.Keys()
		return len(keys) == 1 && (keys[0] == "file" || keys[0] == "attr")
	}
	return false
}

// fixPackages merges a `find_namespace:` directive with the options of
// its [options.packages.find] section.
func fixPackages(_, doc *document.Table) *document.Table {
	packages := document.GetNestedTable(doc, "tool", "setuptools", "packages")
	if packages == nil {
		return doc
	}
	hasNamespace := packages.Has("find_namespace") || packages.Has("find-namespace")
	if !hasNamespace || !packages.Has("find") {
		return doc
	}
	packages.Pop("find_namespace")
	packages.Pop("find-namespace")
	find, _ := packages.Pop("find")
	packages.Set("find-namespace", find)
	return doc
}

// fixSetupRequires folds setup-requires into build-system.requires,
// deduplicating by requirement name.
func fixSetupRequires(_, doc *document.Table) *document.Table {
	popped, ok := document.PopNested(doc, "tool", "setuptools", "setup-requires")
	if !ok {
		return doc
	}
	extra, _ := popped.(transform.CommentedList)
	requires, _ := document.GetNested(doc, "build-system", "requires")
	current, _ := requires.([]any)

	newDeps := extra.AsList()
	for i := len(newDeps) - 1; i >= 0; i-- {
		dep := asString(newDeps[i])
		if dep == "" {
			continue
		}
		name := RequirementName(dep)
		kept := current[:0:0]
		for _, existing := range current {
			if RequirementName(asString(existing)) != name {
				kept = append(kept, existing)
			}
		}
		current = append([]any{dep}, kept...)
	}
	document.SetNested(doc, current, "build-system", "requires")
	return doc
}

// ensurePEP518 moves every unexpected top-level table under [tool], the
// only namespace PEP 518 leaves open to other tools.
func ensurePEP518(_, doc *document.Table) *document.Table {
	for _, name := range doc.Keys() {
		switch name {
		case "build-system", "project", "tool":
			continue
		}
		key := strings.TrimPrefix(strings.TrimPrefix(name, "tool:"), "tool.")
		v, _ := doc.Pop(name)
		document.SetNested(doc, v, "tool", key)
	}
	return doc
}

func cleanup(_, doc *document.Table) *document.Table {
	removals := [][]string{
		{"project"},
		{"tool", "setuptools", "packages"},
		{"tool", "setuptools"},
		{"tool"},
	}
	for _, path := range removals {
		if v, ok := document.GetNested(doc, path...); ok && isEmpty(v) {
			document.PopNested(doc, path...)
		}
	}
	return doc
}

// ---- Helpers ----

func popTable(doc *document.Table, key string) *document.Table {
	v, ok := doc.Pop(key)
	if !ok {
		return document.NewTable()
	}
	table, isTable := v.(*document.Table)
	if !isTable {
		return document.NewTable()
	}
	return table
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func asString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case transform.Commented:
		return asString(value.ValueOr(""))
	}
	return ""
}

func isEmpty(v any) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return value == ""
	case *document.Table:
		return len(value.Keys()) == 0
	case []any:
		return len(value) == 0
	case transform.CommentedList:
		return value.Len() == 0
	case transform.CommentedKV:
		return len(value.Pairs()) == 0
	}
	return false
}
