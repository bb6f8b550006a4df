//go:build librustzcash

package ffi

/*
#cgo LDFLAGS: -L${SRCDIR}/rust/target/release -lrustzcash
#cgo darwin LDFLAGS: -framework Security -framework Foundation
#cgo linux LDFLAGS: -ldl -lm -lpthread

#include <stdbool.h>

// Function declarations (from librustzcash.h)
void librustzcash_to_scalar(const unsigned char *input, unsigned char *result);
void librustzcash_ask_to_ak(const unsigned char *ask, unsigned char *result);
void librustzcash_nsk_to_nk(const unsigned char *nsk, unsigned char *result);
void librustzcash_crh_ivk(
    const unsigned char *ak,
    const unsigned char *nk,
    unsigned char *result
);
bool librustzcash_ivk_to_pkd(
    const unsigned char *ivk,
    const unsigned char *diversifier,
    unsigned char *result
);
bool librustzcash_check_diversifier(const unsigned char *diversifier);
*/
import "C"
import (
	"unsafe"

	"github.com/suffix-labs/stabila-sign/pkg/zen"
)

const available = true

func uchar(b []byte) *C.uchar {
	return (*C.uchar)(unsafe.Pointer(&b[0]))
}

func toScalar(wide [64]byte) ([32]byte, error) {
	var result [32]byte
	C.librustzcash_to_scalar(uchar(wide[:]), uchar(result[:]))
	return result, nil
}

func askToAk(ask [32]byte) ([32]byte, error) {
	var ak [32]byte
	C.librustzcash_ask_to_ak(uchar(ask[:]), uchar(ak[:]))
	return ak, nil
}

func nskToNk(nsk [32]byte) ([32]byte, error) {
	var nk [32]byte
	C.librustzcash_nsk_to_nk(uchar(nsk[:]), uchar(nk[:]))
	return nk, nil
}

func crhIvk(ak, nk [32]byte) ([32]byte, error) {
	var ivk [32]byte
	C.librustzcash_crh_ivk(uchar(ak[:]), uchar(nk[:]), uchar(ivk[:]))
	return ivk, nil
}

func ivkToPkd(ivk [32]byte, d zen.Diversifier) ([32]byte, error) {
	var pkd [32]byte
	ok := C.librustzcash_ivk_to_pkd(uchar(ivk[:]), uchar(d[:]), uchar(pkd[:]))
	if !bool(ok) {
		return pkd, &FFIError{
			Op:      "librustzcash_ivk_to_pkd",
			Message: "invalid diversifier or viewing key",
		}
	}
	return pkd, nil
}

func checkDiversifier(d zen.Diversifier) bool {
	return bool(C.librustzcash_check_diversifier(uchar(d[:])))
}
