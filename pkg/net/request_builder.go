package net

import (
	"net/url"
	"strings"
)

// NormalizeSiteURL 站点地址归一化，作为站点缓存与比较的唯一键
// 去掉首尾空白和末尾斜杠，scheme 与 host 转小写，路径保持原样
func NormalizeSiteURL(raw string) string {
	s := strings.TrimRight(strings.TrimSpace(raw), "/")
	if s == "" {
		return ""
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return strings.ToLower(s)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.RawQuery = ""
	u.Fragment = ""
	return strings.TrimRight(u.String(), "/")
}

// BuildAPIBase 拼接站点 REST API 根地址
// 例: BuildAPIBase("https://shop.example/", "/wp-json/wc/v3") => "https://shop.example/wp-json/wc/v3"
func BuildAPIBase(siteURL, apiPath string) string {
	return NormalizeSiteURL(siteURL) + "/" + strings.Trim(apiPath, "/")
}

// HostKey 提取站点 host，用于共享连接池
func HostKey(siteURL string) string {
	u, err := url.Parse(NormalizeSiteURL(siteURL))
	if err != nil || u.Host == "" {
		return NormalizeSiteURL(siteURL)
	}
	return u.Host
}
