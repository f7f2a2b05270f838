/*
Package pp20 implements the PP20 compression format used to pack game resources.

PP20 is an LZSS variant whose body is decoded from its last byte towards its
first while output is rebuilt from its last byte towards its first. Because the
write cursor trails the read cursor, a stream can be unpacked in place: packed
bytes at the start of a buffer, output at its end, as long as the two ends are
at least a safety margin apart.

Stream layout:

	offset 0   4 bytes   "PP20"
	offset 4   4 bytes   offset width of levels 0..3 (the Efficiency)
	offset 8   n bytes   bit stream, read backwards, least significant bit first
	tail-4     3 bytes   decoded length, big-endian
	tail-1     1 byte    padding bits to skip before the first real bit

# Compress

	packed, err := pp20.Compress(data, nil)
	packed, err := pp20.Compress(data, &pp20.CompressOptions{Efficiency: pp20.EfficiencyFast})

# Decompress

	out, margin, err := pp20.Decompress(packed, nil)

margin is expressed in WordSize units. An archive writer keeps it alongside the
entry; a reader that wants to avoid a second allocation then does:

	buf := make([]byte, pp20.InPlaceLen(len(packed), margin))
	copy(buf, packed)
	out, err := pp20.DecompressInPlace(buf, len(packed), nil)
*/
package pp20
