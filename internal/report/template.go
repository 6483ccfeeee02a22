package report

// The report is one static page: tabular data and chart history are
// embedded as JSON and all interactivity runs client-side, so the file
// works when opened via file://. Only the charting runtime comes from a
// CDN.
const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<script src="https://cdn.jsdelivr.net/npm/echarts@5/dist/echarts.min.js"></script>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    background: #09090b; color: #fafafa; min-height: 100vh; padding: 24px;
}
.container { max-width: 1400px; margin: 0 auto; }
.header { display: flex; align-items: center; gap: 16px; margin-bottom: 24px; flex-wrap: wrap; }
.header h1 { font-size: 24px; font-weight: 700; }
.header p { color: #71717a; font-size: 14px; }
.stats-bar { display: flex; gap: 16px; margin-left: auto; flex-wrap: wrap; }
.stats-item { background: #18181b; border: 1px solid #27272a; border-radius: 8px; padding: 8px 16px; text-align: center; }
.stats-item .label { font-size: 11px; color: #71717a; text-transform: uppercase; }
.stats-item .value { font-size: 18px; font-weight: 600; color: #10b981; }
.stats-item .value.tradfi { color: #fbbf24; }
.controls { display: flex; gap: 12px; margin-bottom: 16px; flex-wrap: wrap; align-items: center; }
.search-box { flex: 1; min-width: 200px; max-width: 400px; }
.search-box input {
    width: 100%; padding: 10px 16px; background: #18181b; border: 1px solid #27272a;
    border-radius: 8px; color: #fafafa; font-size: 14px; outline: none;
}
.search-box input:focus { border-color: #10b981; }
.filter-btns { display: flex; gap: 8px; }
.filter-btn {
    padding: 8px 16px; background: #18181b; border: 1px solid #27272a; border-radius: 6px;
    color: #a1a1aa; font-size: 13px; cursor: pointer;
}
.filter-btn:hover { border-color: #3f3f46; color: #fafafa; }
.filter-btn.active { background: #10b981; border-color: #10b981; color: #000; }
.table-container { background: rgba(24,24,27,0.5); border: 1px solid #27272a; border-radius: 12px; overflow: hidden; }
.table-scroll { max-height: 600px; overflow-y: auto; }
table { width: 100%; border-collapse: collapse; }
thead { position: sticky; top: 0; z-index: 10; }
th {
    background: #1f1f23; padding: 12px; text-align: left; font-size: 11px; font-weight: 600;
    color: #a1a1aa; text-transform: uppercase; letter-spacing: 0.5px; cursor: pointer;
    user-select: none; white-space: nowrap; border-bottom: 1px solid #27272a;
}
th:hover { background: #27272a; }
th:not(:first-child) { text-align: right; }
th .sort-icon { margin-left: 4px; opacity: 0.5; }
th.sorted .sort-icon { opacity: 1; color: #10b981; }
td { padding: 10px 12px; border-top: 1px solid rgba(39,39,42,0.5); font-size: 13px; }
td:not(:first-child) { text-align: right; font-family: 'SF Mono', Monaco, 'Courier New', monospace; font-size: 12px; }
tbody tr { cursor: pointer; }
tbody tr:hover { background: rgba(39,39,42,0.3); }
tbody tr.selected { background: rgba(16,185,129,0.15); }
tbody tr.tradfi .coin-name { color: #fbbf24; }
.coin-name { font-weight: 600; }
.annual { color: #71717a; font-size: 10px; }
.positive { color: #10b981; }
.negative { color: #f43f5e; }
.neutral { color: #71717a; }
.nodata { color: #52525b; }
.detail-panel {
    position: fixed; top: 0; right: 0; width: 500px; height: 100vh; background: #18181b;
    border-left: 1px solid #27272a; padding: 24px; transform: translateX(100%);
    transition: transform 0.3s ease; overflow-y: auto; z-index: 100;
}
.detail-panel.active { transform: translateX(0); }
.detail-overlay {
    position: fixed; inset: 0; background: rgba(0,0,0,0.5); opacity: 0;
    pointer-events: none; transition: opacity 0.3s; z-index: 99;
}
.detail-overlay.active { opacity: 1; pointer-events: auto; }
.detail-header { display: flex; justify-content: space-between; margin-bottom: 24px; }
.detail-title { font-size: 24px; font-weight: 700; }
.detail-subtitle { color: #71717a; font-size: 14px; margin-top: 4px; }
.close-btn {
    width: 36px; height: 36px; background: #27272a; border: none; border-radius: 50%;
    color: #a1a1aa; cursor: pointer; font-size: 20px;
}
.stats-grid { display: grid; grid-template-columns: repeat(2, 1fr); gap: 12px; margin-bottom: 24px; }
.stat-card { background: #09090b; border: 1px solid #27272a; border-radius: 8px; padding: 12px; }
.stat-label { font-size: 11px; color: #71717a; text-transform: uppercase; margin-bottom: 4px; }
.stat-value { font-size: 18px; font-weight: 600; font-family: 'SF Mono', Monaco, monospace; }
.chart-container { background: #09090b; border: 1px solid #27272a; border-radius: 12px; padding: 8px; height: 260px; }
#detail-chart { width: 100%; height: 100%; }
.no-results { text-align: center; padding: 48px; color: #52525b; display: none; }
.footer { text-align: center; margin-top: 16px; color: #52525b; font-size: 12px; }
@media (max-width: 768px) { .detail-panel { width: 100%; } }
</style>
</head>
<body>
<div class="container">
    <div class="header">
        <div>
            <h1>{{.Title}}</h1>
            <p>Perpetual funding rates, trailing 30 days</p>
        </div>
        <div class="stats-bar">
            <div class="stats-item"><div class="label">Main Perp</div><div class="value">{{.MainCount}}</div></div>
            <div class="stats-item"><div class="label">TradFi</div><div class="value tradfi">{{.TradFiCount}}</div></div>
            <div class="stats-item"><div class="label">Total</div><div class="value">{{.TotalCount}}</div></div>
        </div>
    </div>
    <div class="controls">
        <div class="search-box">
            <input type="text" id="search" placeholder="Search assets... (press / to focus)" oninput="renderTable()">
        </div>
        <div class="filter-btns">
            <button class="filter-btn active" onclick="setFilter('all', this)">All</button>
            <button class="filter-btn" onclick="setFilter('main', this)">Main Perp</button>
            <button class="filter-btn" onclick="setFilter('tradfi', this)">TradFi</button>
            <button class="filter-btn" onclick="setFilter('positive', this)">Positive</button>
            <button class="filter-btn" onclick="setFilter('negative', this)">Negative</button>
        </div>
    </div>
    <div class="table-container">
        <div class="table-scroll">
            <table>
                <thead><tr>
                    <th onclick="sortTable('name')" data-col="name">Asset <span class="sort-icon">&#8597;</span></th>
                    <th onclick="sortTable('volume24h')" data-col="volume24h">24H Volume <span class="sort-icon">&#8597;</span></th>
                    <th onclick="sortTable('openInterest')" data-col="openInterest">Open Interest <span class="sort-icon">&#8597;</span></th>
                    <th onclick="sortTable('rate8h')" data-col="rate8h">8H Rate <span class="sort-icon">&#8597;</span></th>
                    <th onclick="sortTable('annualized')" data-col="annualized">APR <span class="sort-icon">&#8597;</span></th>
                    <th onclick="sortTable('sum1d')" data-col="sum1d">1D <span class="sort-icon">&#8597;</span></th>
                    <th onclick="sortTable('sum7d')" data-col="sum7d">7D <span class="sort-icon">&#8597;</span></th>
                    <th onclick="sortTable('sum30d')" data-col="sum30d">30D <span class="sort-icon">&#8597;</span></th>
                </tr></thead>
                <tbody id="asset-table"></tbody>
            </table>
        </div>
        <div class="no-results" id="no-results">No matching assets</div>
    </div>
    <div class="footer">
        Generated {{.GeneratedAt}} | run {{.RunID}} | click a row for details | / to search | ESC to close
    </div>
</div>
<div class="detail-overlay" id="detail-overlay" onclick="hideDetail()"></div>
<div class="detail-panel" id="detail-panel">
    <div class="detail-header">
        <div>
            <div class="detail-title" id="detail-title">-</div>
            <div class="detail-subtitle">Funding history</div>
        </div>
        <button class="close-btn" onclick="hideDetail()">&times;</button>
    </div>
    <div class="stats-grid" id="detail-stats"></div>
    <div class="chart-container"><div id="detail-chart"></div></div>
</div>
<script>
const tableData = {{.Rows}};
const chartData = {{.Charts}};

let currentSort = { col: 'volume24h', dir: 'desc' };
let currentFilter = 'all';
let detailChart = null;

function formatPercent(value, decimals) {
    if (value === null || value === undefined) return '-';
    return (value * 100).toFixed(decimals === undefined ? 4 : decimals) + '%';
}

function formatMoney(value) {
    if (!value) return '-';
    if (value >= 1e9) return '$' + (value / 1e9).toFixed(2) + 'B';
    if (value >= 1e6) return '$' + (value / 1e6).toFixed(2) + 'M';
    if (value >= 1e3) return '$' + (value / 1e3).toFixed(1) + 'K';
    return '$' + value.toFixed(0);
}

function formatOI(value) {
    if (!value) return '-';
    if (value >= 1e6) return (value / 1e6).toFixed(2) + 'M';
    if (value >= 1e3) return (value / 1e3).toFixed(1) + 'K';
    return value.toFixed(0);
}

function formatWithAnnual(value, days, decimals) {
    if (value === null || value === undefined) return '-';
    const pct = (value * 100).toFixed(decimals) + '%';
    const annual = (value * 365 / days * 100).toFixed(1) + '%';
    return pct + ' <span class="annual">(' + annual + ')</span>';
}

function colorClass(val) {
    if (val > 0.00001) return 'positive';
    if (val < -0.00001) return 'negative';
    return 'neutral';
}

function renderTable() {
    const tbody = document.getElementById('asset-table');
    const search = document.getElementById('search').value.toLowerCase();

    let filtered = tableData.filter(function (row) {
        if (search && row.name.toLowerCase().indexOf(search) === -1) return false;
        if (currentFilter === 'main' && row.tradFi) return false;
        if (currentFilter === 'tradfi' && !row.tradFi) return false;
        if (currentFilter === 'positive' && (!row.hasData || row.rate8h <= 0)) return false;
        if (currentFilter === 'negative' && (!row.hasData || row.rate8h >= 0)) return false;
        return true;
    });

    filtered.sort(function (a, b) {
        // rows without data always sink to the bottom
        if (a.hasData !== b.hasData) return a.hasData ? -1 : 1;
        if (currentSort.col === 'name') {
            const av = a.displayName.toLowerCase(), bv = b.displayName.toLowerCase();
            return currentSort.dir === 'asc' ? av.localeCompare(bv) : bv.localeCompare(av);
        }
        const av = a[currentSort.col], bv = b[currentSort.col];
        return currentSort.dir === 'asc' ? av - bv : bv - av;
    });

    document.querySelectorAll('th').forEach(function (th) {
        th.classList.remove('sorted');
        const icon = th.querySelector('.sort-icon');
        if (icon) icon.innerHTML = '&#8597;';
    });
    const sortedTh = document.querySelector('th[data-col="' + currentSort.col + '"]');
    if (sortedTh) {
        sortedTh.classList.add('sorted');
        sortedTh.querySelector('.sort-icon').innerHTML = currentSort.dir === 'asc' ? '&#8593;' : '&#8595;';
    }

    document.getElementById('no-results').style.display = filtered.length ? 'none' : 'block';

    tbody.innerHTML = filtered.map(function (row) {
        const cls = row.tradFi ? 'tradfi' : '';
        let cells;
        if (row.hasData) {
            cells =
                '<td style="color:#60a5fa">' + formatMoney(row.volume24h) + '</td>' +
                '<td style="color:#a78bfa">' + formatOI(row.openInterest) + '</td>' +
                '<td class="' + colorClass(row.rate8h) + '">' + formatPercent(row.rate8h) + '</td>' +
                '<td class="' + colorClass(row.annualized) + '">' + formatPercent(row.annualized, 1) + '</td>' +
                '<td class="' + colorClass(row.sum1d) + '">' + formatWithAnnual(row.sum1d, 1, 3) + '</td>' +
                '<td class="' + colorClass(row.sum7d) + '">' + formatWithAnnual(row.sum7d, 7, 2) + '</td>' +
                '<td class="' + colorClass(row.sum30d) + '">' + formatWithAnnual(row.sum30d, 30, 2) + '</td>';
        } else {
            cells = '<td class="nodata" colspan="7">no data</td>';
        }
        return '<tr class="' + cls + '" onclick="showDetail(\'' + row.name.replace(/'/g, "\\'") + '\', this)">' +
            '<td><span class="coin-name">' + row.displayName + '</span></td>' + cells + '</tr>';
    }).join('');
}

function sortTable(col) {
    if (currentSort.col === col) {
        currentSort.dir = currentSort.dir === 'asc' ? 'desc' : 'asc';
    } else {
        currentSort.col = col;
        currentSort.dir = col === 'name' ? 'asc' : 'desc';
    }
    renderTable();
}

function setFilter(filter, btn) {
    currentFilter = filter;
    document.querySelectorAll('.filter-btn').forEach(function (b) { b.classList.remove('active'); });
    btn.classList.add('active');
    renderTable();
}

function statCard(label, value, cls) {
    return '<div class="stat-card"><div class="stat-label">' + label +
        '</div><div class="stat-value ' + (cls || '') + '">' + value + '</div></div>';
}

function showDetail(name, tr) {
    const row = tableData.find(function (r) { return r.name === name; });
    if (!row) return;

    document.getElementById('detail-title').textContent = row.displayName;

    const statsEl = document.getElementById('detail-stats');
    if (row.hasData) {
        statsEl.innerHTML =
            statCard('Current 8H', formatPercent(row.rate8h), colorClass(row.rate8h)) +
            statCard('Annualized', formatPercent(row.annualized, 2), colorClass(row.annualized)) +
            statCard('Average', formatPercent(row.avg), colorClass(row.avg)) +
            statCard('Observations', row.count, 'neutral') +
            statCard('Max', formatPercent(row.max), 'positive') +
            statCard('Min', formatPercent(row.min), 'negative') +
            statCard('7D Sum', formatPercent(row.sum7d, 2), colorClass(row.sum7d)) +
            statCard('30D Sum', formatPercent(row.sum30d, 2), colorClass(row.sum30d));
    } else {
        statsEl.innerHTML = statCard('Status', 'no data', 'nodata');
    }

    const points = chartData[name] || [];
    if (!detailChart) {
        detailChart = echarts.init(document.getElementById('detail-chart'), 'dark');
    }
    detailChart.setOption({
        backgroundColor: 'transparent',
        grid: { left: 48, right: 16, top: 16, bottom: 24 },
        tooltip: {
            trigger: 'axis',
            valueFormatter: function (v) { return (+v).toFixed(4) + '%'; }
        },
        xAxis: {
            type: 'time',
            axisLabel: { color: '#71717a' },
            splitLine: { show: false }
        },
        yAxis: {
            type: 'value',
            axisLabel: { color: '#71717a', formatter: function (v) { return v.toFixed(3) + '%'; } },
            splitLine: { lineStyle: { color: '#27272a' } }
        },
        series: [{
            type: 'line',
            showSymbol: false,
            lineStyle: { color: '#10b981', width: 2 },
            areaStyle: { color: 'rgba(16,185,129,0.1)' },
            data: points.map(function (p) { return [p.time, p.rate]; })
        }]
    }, true);

    document.getElementById('detail-panel').classList.add('active');
    document.getElementById('detail-overlay').classList.add('active');
    document.querySelectorAll('tbody tr').forEach(function (el) { el.classList.remove('selected'); });
    if (tr) tr.classList.add('selected');
    setTimeout(function () { detailChart.resize(); }, 310);
}

function hideDetail() {
    document.getElementById('detail-panel').classList.remove('active');
    document.getElementById('detail-overlay').classList.remove('active');
    document.querySelectorAll('tbody tr').forEach(function (el) { el.classList.remove('selected'); });
}

document.addEventListener('keydown', function (e) {
    if (e.key === 'Escape') hideDetail();
    if (e.key === '/' && e.target.tagName !== 'INPUT') {
        e.preventDefault();
        document.getElementById('search').focus();
    }
});

renderTable();
</script>
</body>
</html>
`
