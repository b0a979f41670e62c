package sandboxconfig

import "testing"

func TestListTemplatesIncludesBuiltins(t *testing.T) {
	templates := ListTemplates()
	names := make(map[string]bool, len(templates))
	for _, tpl := range templates {
		names[tpl.Name] = true
		if tpl.Description == "" {
			t.Errorf("template %q has no description", tpl.Name)
		}
	}

	for _, want := range []string{"default-deny", "workspace-write", "npm-install", "build-sandbox"} {
		if !names[want] {
			t.Errorf("ListTemplates() missing built-in %q", want)
		}
	}
}

func TestLoadTemplateDefaultDeny(t *testing.T) {
	f, err := LoadTemplate("default-deny")
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	if len(f.Read) != 0 || len(f.Write) != 0 || f.Network {
		t.Errorf("default-deny template = %+v, want fully empty/false", f)
	}
}

func TestLoadTemplateStripsJSONExtension(t *testing.T) {
	a, err := LoadTemplate("npm-install")
	if err != nil {
		t.Fatalf("LoadTemplate(npm-install): %v", err)
	}
	b, err := LoadTemplate("npm-install.json")
	if err != nil {
		t.Fatalf("LoadTemplate(npm-install.json): %v", err)
	}
	if len(a.Write) != len(b.Write) || a.Network != b.Network {
		t.Errorf("LoadTemplate with/without .json suffix disagree: %+v vs %+v", a, b)
	}
}

func TestLoadTemplateUnknown(t *testing.T) {
	if _, err := LoadTemplate("does-not-exist"); err == nil {
		t.Fatal("expected error loading an unknown template")
	}
}
