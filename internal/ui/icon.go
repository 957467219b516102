package ui

// iconBytes is the 16x16 PNG shown in the system tray.
var iconBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x10,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0xf3, 0xff, 0x61, 0x00, 0x00, 0x00,
	0x63, 0x49, 0x44, 0x41, 0x54, 0x78, 0xda, 0xa5, 0xd3, 0xcb, 0x09, 0x00,
	0x21, 0x0c, 0x45, 0xd1, 0x5b, 0x89, 0x0b, 0xeb, 0x98, 0xc2, 0xa6, 0x6c,
	0x3b, 0x50, 0x5c, 0x08, 0xe2, 0x37, 0x2f, 0x2e, 0x22, 0x26, 0xc2, 0x41,
	0x4c, 0x24, 0xfd, 0x5f, 0x6e, 0x11, 0x42, 0x94, 0x83, 0x1e, 0xf0, 0x20,
	0x13, 0xa0, 0x22, 0xd4, 0xe5, 0x05, 0xa1, 0x6d, 0xbc, 0x08, 0x7d, 0xe2,
	0x41, 0x18, 0x0b, 0x2a, 0xc2, 0xaa, 0xa8, 0x20, 0xec, 0x0e, 0xac, 0x08,
	0xa7, 0xeb, 0x59, 0x10, 0x6e, 0x8f, 0x74, 0x43, 0xb0, 0xb4, 0xea, 0x84,
	0x60, 0x1d, 0x98, 0x1d, 0x82, 0x32, 0xb6, 0x2b, 0x04, 0xf5, 0xf3, 0x3c,
	0x03, 0x23, 0x52, 0x00, 0x9b, 0x6b, 0xbb, 0x4c, 0x94, 0x31, 0x08, 0x94,
	0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}
