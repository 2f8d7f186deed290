package main

/*
#include <stddef.h>
#include <stdint.h>
#include <sys/types.h>
*/
import "C"

import "unsafe"

func bytesOf(data unsafe.Pointer, n C.size_t) []byte {
	if data == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(data), int(n))
}

//export texio_init
func texio_init(configPath *C.char) C.int {
	if err := start(C.GoString(configPath)); err != nil {
		reportStartup("texio_init", err)
		return 1
	}
	return 0
}

//export texio_shutdown
func texio_shutdown() C.int {
	if err := stop(); err != nil {
		reportStartup("texio_shutdown", err)
		return 1
	}
	return 0
}

//export ttstub_output_open
func ttstub_output_open(name *C.char, isGz C.int) C.uint64_t {
	return C.uint64_t(outputOpen(C.GoString(name), isGz != 0))
}

//export ttstub_output_open_stdout
func ttstub_output_open_stdout() C.uint64_t {
	return C.uint64_t(outputOpenStdout())
}

//export ttstub_output_putc
func ttstub_output_putc(handle C.uint64_t, c C.int) C.int {
	return C.int(outputPutc(uint64(handle), int(c)))
}

//export ttstub_output_write
func ttstub_output_write(handle C.uint64_t, data *C.char, n C.size_t) C.size_t {
	return C.size_t(outputWrite(uint64(handle), bytesOf(unsafe.Pointer(data), n)))
}

//export ttstub_output_flush
func ttstub_output_flush(handle C.uint64_t) C.int {
	return C.int(outputFlush(uint64(handle)))
}

//export ttstub_output_close
func ttstub_output_close(handle C.uint64_t) C.int {
	return C.int(outputClose(uint64(handle)))
}

//export ttstub_input_open
func ttstub_input_open(name *C.char, format C.int, isGz C.int) C.uint64_t {
	return C.uint64_t(inputOpen(C.GoString(name), int(format), isGz != 0))
}

//export ttstub_input_get_size
func ttstub_input_get_size(handle C.uint64_t) C.size_t {
	return C.size_t(inputGetSize(uint64(handle)))
}

// ttstub_input_seek returns (size_t)-1 on failure.
//
//export ttstub_input_seek
func ttstub_input_seek(handle C.uint64_t, offset C.ssize_t, whence C.int) C.size_t {
	return C.size_t(inputSeek(uint64(handle), int64(offset), int(whence)))
}

//export ttstub_input_getc
func ttstub_input_getc(handle C.uint64_t) C.int {
	return C.int(inputGetc(uint64(handle)))
}

//export ttstub_input_ungetc
func ttstub_input_ungetc(handle C.uint64_t, c C.int) C.int {
	return C.int(inputUngetc(uint64(handle), int(c)))
}

//export ttstub_input_read
func ttstub_input_read(handle C.uint64_t, data *C.char, n C.size_t) C.ssize_t {
	return C.ssize_t(inputRead(uint64(handle), bytesOf(unsafe.Pointer(data), n)))
}

//export ttstub_input_close
func ttstub_input_close(handle C.uint64_t) C.int {
	return C.int(inputClose(uint64(handle)))
}
