//go:build darwin

package sandbox

/*
#include <dlfcn.h>
#include <stdlib.h>

typedef int (*sandbox_init_fn)(const char *profile, uint64_t flags,
                                const char *const params[], char **errorbuf);
typedef void (*sandbox_free_error_fn)(char *errorbuf);

static sandbox_init_fn sb_init_fn = NULL;
static sandbox_free_error_fn sb_free_fn = NULL;

static int stevelock_load_seatbelt(void) {
	if (sb_init_fn != NULL && sb_free_fn != NULL) {
		return 1;
	}
	void *lib = dlopen("/usr/lib/system/libsystem_sandbox.dylib", RTLD_LAZY);
	if (!lib) {
		return 0;
	}
	sb_init_fn = (sandbox_init_fn)dlsym(lib, "sandbox_init_with_parameters");
	sb_free_fn = (sandbox_free_error_fn)dlsym(lib, "sandbox_free_error");
	return (sb_init_fn != NULL && sb_free_fn != NULL) ? 1 : 0;
}

static char *stevelock_sandbox_apply(const char *profile) {
	char *errbuf = NULL;
	int rc = sb_init_fn(profile, 0, NULL, &errbuf);
	if (rc == 0) {
		return NULL;
	}
	if (errbuf == NULL) {
		return strdup("sandbox_init_with_parameters failed");
	}
	char *copy = strdup(errbuf);
	sb_free_fn(errbuf);
	return copy;
}
*/
import "C"

import (
	"errors"
	"sync"
	"unsafe"
)

var (
	seatbeltOnce     sync.Once
	seatbeltLoadedOK bool
)

// resolveSeatbeltSymbols dlopens libsystem_sandbox.dylib and resolves
// sandbox_init_with_parameters/sandbox_free_error exactly once.
func resolveSeatbeltSymbols() error {
	seatbeltOnce.Do(func() {
		seatbeltLoadedOK = C.stevelock_load_seatbelt() != 0
	})
	if !seatbeltLoadedOK {
		return errors.New("seatbelt: failed to resolve sandbox_init_with_parameters")
	}
	return nil
}

// applySeatbeltProfile calls sandbox_init_with_parameters on profile. It
// must be called in the stage process, after stdio is wired and before
// exec.
func applySeatbeltProfile(profile string) error {
	if err := resolveSeatbeltSymbols(); err != nil {
		return err
	}

	cProfile := C.CString(profile)
	defer C.free(unsafe.Pointer(cProfile))

	cErr := C.stevelock_sandbox_apply(cProfile)
	if cErr == nil {
		return nil
	}
	defer C.free(unsafe.Pointer(cErr))
	return errors.New("sandbox_init_with_parameters: " + C.GoString(cErr))
}
