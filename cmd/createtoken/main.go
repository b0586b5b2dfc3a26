package main

import (
	"flag"
	"fmt"
	"os"

	"presensi.app/presensi/security"
)

func main() {
	deviceID := flag.String("device", "", "registered device id")
	label := flag.String("label", "", "device label shown in logs")
	role := flag.String("role", security.RoleKiosk, "token role (kiosk or admin)")
	ttl := flag.Int64("ttl", 365*24*3600, "token lifetime in seconds")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is not set")
		os.Exit(1)
	}
	if *deviceID == "" {
		fmt.Fprintln(os.Stderr, "-device is required")
		os.Exit(1)
	}

	token, err := security.CreateIdentityToken(&security.DeviceIdentity{
		DeviceID: *deviceID,
		Label:    *label,
		Role:     *role,
	}, secret, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
