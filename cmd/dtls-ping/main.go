package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"funahara/dtls"
)

func main() {
	const version = "0.0.1"
	dispVersion := false

	var listenAddr string
	var dialAddr string
	var identity string
	var psk string
	var extendedMasterSecret bool

	flag.BoolVar(&dispVersion, "v", false, "バージョン表示")
	flag.BoolVar(&dispVersion, "version", false, "バージョン表示")
	flag.StringVar(&listenAddr, "listen", "", "待ち受けアドレス (例: :4433)")
	flag.StringVar(&dialAddr, "dial", "", "接続先アドレス (例: 127.0.0.1:4433)")
	flag.StringVar(&identity, "identity", "client", "PSK識別子")
	flag.StringVar(&psk, "psk", "", "事前共有鍵")
	flag.BoolVar(&extendedMasterSecret, "ems", true, "Extended Master Secretの使用")
	flag.Parse()

	if dispVersion {
		fmt.Printf("dtls-ping: Ver %s\n", version)
		os.Exit(0)
	}

	if listenAddr == "" && dialAddr == "" {
		fmt.Fprintln(os.Stderr, "-listen か -dial のいずれかを指定してください")
		os.Exit(1)
	}

	config := &dtls.Config{
		ExtendedMasterSecret: extendedMasterSecret,
		PSKIdentityHint:      []byte(identity),
		HandshakeTimeout:     5 * time.Second,
	}
	if psk != "" {
		config.PSK = func(id []byte) ([]byte, error) { return []byte(psk), nil }
		config.PSKIdentity = []byte(identity)
	}

	if listenAddr != "" {
		runServer(listenAddr, config)
		return
	}
	runClient(dialAddr, config)
}

func runServer(addr string, config *dtls.Config) {
	l, err := dtls.Listen("udp", addr, config)
	if err != nil {
		fmt.Fprintln(os.Stderr, "待ち受けに失敗しました:", err)
		os.Exit(1)
	}
	fmt.Println("待ち受け中:", l.Addr())
	for {
		conn, err := l.Accept()
		if err != nil {
			fmt.Fprintln(os.Stderr, "接続の確立に失敗しました:", err)
			continue
		}
		go echo(conn)
	}
}

func echo(conn *dtls.Conn) {
	defer conn.Close()
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		if _, err := conn.Write(buf[:n]); err != nil {
			return
		}
	}
}

func runClient(addr string, config *dtls.Config) {
	conn, err := dtls.Dial("udp", addr, config)
	if err != nil {
		fmt.Fprintln(os.Stderr, "接続に失敗しました:", err)
		os.Exit(1)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("ping")); err != nil {
		fmt.Fprintln(os.Stderr, "送信に失敗しました:", err)
		os.Exit(1)
	}
	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil {
		fmt.Fprintln(os.Stderr, "受信に失敗しました:", err)
		os.Exit(1)
	}
	fmt.Println("受信:", string(buf[:n]))
}
