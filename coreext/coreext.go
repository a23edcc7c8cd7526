// Package coreext imports every core extension, installing all of them in
// interpreters created afterward.
package coreext

import (
	// importing for side effects
	_ "github.com/zephyrtronium/quill/coreext/date"
	_ "github.com/zephyrtronium/quill/coreext/directory"
	_ "github.com/zephyrtronium/quill/coreext/duration"
	_ "github.com/zephyrtronium/quill/coreext/file"
	_ "github.com/zephyrtronium/quill/coreext/module"
	_ "github.com/zephyrtronium/quill/coreext/path"
	_ "github.com/zephyrtronium/quill/coreext/system"
	_ "github.com/zephyrtronium/quill/coreext/unittest"
)
