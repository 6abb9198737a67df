// Package main provides localization for the phonecam CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Configuration":      "設定",
		"Logging":            "ログ",
		"Stream source":      "ストリーム",
		"Transport security": "通信の安全性",
		"Virtual camera":     "仮想カメラ",
		"Debug":              "デバッグ",
		"Relay server":       "リレーサーバー",

		// Commands
		"Use a phone camera as a virtual webcam":                  "スマートフォンのカメラを仮想Webカメラとして使用",
		"Receive the phone stream and feed the virtual camera":    "スマートフォンのストリームを受信して仮想カメラへ送る",
		"Serve the phone page and relay its frames to the bridge": "スマートフォン用ページを配信し、フレームをブリッジへ中継",
		"Show version information":                                "バージョン情報を表示",
		"phonecam version %s":                                     "phonecam バージョン %s",
		"Error: %s":                                               "エラー: %s",

		// Common flags
		"YAML configuration file":                          "YAML設定ファイル",
		"Environment file loaded before reading variables": "環境変数の前に読み込む .env ファイル",
		"Log level (debug, info, warn, error)":             "ログレベル (debug, info, warn, error)",
		"Suppress all log output":                          "ログ出力をすべて抑制",

		// Bridge flags
		"Relay host (default: localhost)":                                "リレーのホスト (デフォルト: localhost)",
		"Relay port (default: 8443)":                                     "リレーのポート (デフォルト: 8443)",
		"Full stream URL, overrides host and port":                       "ストリームURL (ホストとポートより優先)",
		"Use ws:// instead of wss://":                                    "wss:// の代わりに ws:// を使用",
		"Connection attempts before giving up (default: 5)":              "諦めるまでの接続試行回数 (デフォルト: 5)",
		"Delay between connection attempts (default: 5s)":                "接続試行の間隔 (デフォルト: 5s)",
		"Certificate check: verify, insecure, or ca":                     "証明書の検証: verify, insecure, ca",
		"Trust anchor PEM file for ca mode":                              "ca モードで信頼するPEMファイル",
		"Client certificate PEM file":                                    "クライアント証明書のPEMファイル",
		"Client key PEM file":                                            "クライアント秘密鍵のPEMファイル",
		"Output width (default: 1280)":                                   "出力の幅 (デフォルト: 1280)",
		"Output height (default: 720)":                                   "出力の高さ (デフォルト: 720)",
		"Output frame rate (default: 30)":                                "出力フレームレート (デフォルト: 30)",
		"Device path or label; \"-\" with the raw sink writes to stdout": "デバイスパスまたはラベル (raw 出力で \"-\" は標準出力)",
		"Output backend: v4l2 or raw":                                    "出力方式: v4l2 または raw",
		"Do not mirror the picture":                                      "映像を左右反転しない",
		"Largest accepted input image in pixels":                         "受け付ける入力画像の最大ピクセル数",
		"Do not show the standby card while disconnected":                "切断中に待機画面を表示しない",
		"Standby card text":                                              "待機画面の文言",
		"TrueType font for the standby card":                             "待機画面のTrueTypeフォント",
		"Serve Prometheus metrics on this address":                       "このアドレスでPrometheusメトリクスを公開",
		"Save sampled payloads and frames to this directory":             "抽出したペイロードとフレームをこのディレクトリに保存",
		"Save every Nth frame (default: 30)":                             "Nフレームごとに保存 (デフォルト: 30)",

		// Relay flags
		"Listen address (default: :8443)":                     "待ち受けアドレス (デフォルト: :8443)",
		"Directory served to browsers (default: public)":      "ブラウザに配信するディレクトリ (デフォルト: public)",
		"Server certificate PEM file":                         "サーバー証明書のPEMファイル",
		"Server key PEM file":                                 "サーバー秘密鍵のPEMファイル",
		"Serve plain HTTP instead of HTTPS":                   "HTTPS の代わりに HTTP で配信",
		"Extra host name or IP for the generated certificate": "生成する証明書に追加するホスト名またはIP",
	})
}
